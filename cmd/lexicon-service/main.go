// main package for the lexicon-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/lexicon-service/internal/analyzer"
	"github.com/book-expert/lexicon-service/internal/compiler"
	"github.com/book-expert/lexicon-service/internal/config"
	"github.com/book-expert/lexicon-service/internal/core"
	"github.com/book-expert/lexicon-service/internal/lexutils"
	"github.com/book-expert/lexicon-service/internal/objectstore"
	"github.com/book-expert/lexicon-service/internal/userdict"
	"github.com/book-expert/lexicon-service/internal/worker"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "lexicon-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// selectCompiler picks the dictionary compiler implementation named by the
// configuration: the in-process kagome translator, or an external
// mecab-dict-index style binary for OpenJTalk deployments.
func selectCompiler(
	cfg *config.Config,
	kagome *analyzer.Kagome,
	log *logger.Logger,
) (core.LexiconCompiler, error) {
	switch cfg.Lexicon.Compiler {
	case config.CompilerKagome:
		return kagome.Compiler(), nil
	case config.CompilerMeCab:
		if cfg.Lexicon.MeCabDictIndexPath == "" {
			return nil, fmt.Errorf("compiler '%s' requires mecab_dict_index_path", config.CompilerMeCab)
		}

		return compiler.New(cfg.Lexicon.MeCabDictIndexPath, cfg.Lexicon.MeCabSystemDicDir, log), nil
	default:
		return nil, fmt.Errorf("unknown compiler '%s'", cfg.Lexicon.Compiler)
	}
}

func buildDictionary(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
) (*userdict.UserDictionary, error) {
	err := lexutils.EnsureDir(filepath.Dir(cfg.Lexicon.UserDictPath))
	if err != nil {
		return nil, err
	}

	kagome, err := analyzer.New(log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	lexiconCompiler, err := selectCompiler(cfg, kagome, log)
	if err != nil {
		return nil, err
	}

	store := userdict.NewStore(cfg.Lexicon.UserDictPath)
	builder := userdict.NewBuilder(
		cfg.Lexicon.BaseDictDir,
		cfg.Lexicon.CompiledDictPath,
		lexiconCompiler,
		kagome,
		store,
		log,
	)

	dictionary, err := userdict.New(ctx, store, builder, log)
	if err != nil {
		return nil, err
	}

	return dictionary, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 4. Assemble the dictionary subsystem; this performs the initial rebuild.
	dictionary, err := buildDictionary(ctx, cfg, finalLog)
	if err != nil {
		finalLog.Error("Failed to build dictionary subsystem: %v", err)

		return err
	}

	// 5. Connect to NATS and expose the dictionary over request/reply.
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		finalLog.Error("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	payloadStore, err := objectstore.New(jetstreamContext, cfg.NATS.DictionaryObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize payload store: %w", err)
	}

	dictionaryWorker, err := worker.NewNatsWorker(
		natsConnection, cfg.NATS.DictionarySubject, dictionary, payloadStore, finalLog,
	)
	if err != nil {
		return fmt.Errorf("failed to create dictionary worker: %w", err)
	}

	finalLog.System(
		"Lexicon-Service successfully initialized. Listening for requests on subject: %s",
		cfg.NATS.DictionarySubject,
	)

	runErr := dictionaryWorker.Run(ctx)
	if runErr != nil {
		return fmt.Errorf("dictionary worker stopped: %w", runErr)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
