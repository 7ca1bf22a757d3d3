// main package for the lexicon-client, a small CLI for exercising the
// dictionary service over NATS request/reply.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/book-expert/lexicon-service/internal/userdict"
	"github.com/book-expert/lexicon-service/internal/worker"
)

// Flag descriptions.
const (
	flagURLDesc      = "NATS server URL"
	flagSubjectDesc  = "Dictionary request subject"
	flagActionDesc   = "Action: list, add, update, delete, import, export"
	flagSurfaceDesc  = "Surface form of the word"
	flagReadingDesc  = "Katakana pronunciation of the word"
	flagAccentDesc   = "Accent type (mora index of the pitch fall)"
	flagTypeDesc     = "Word type (PROPER_NOUN, COMMON_NOUN, VERB, ADJECTIVE, SUFFIX)"
	flagPriorityDesc = "Word priority (0-10)"
	flagUUIDDesc     = "Word UUID for update/delete"
	flagFileDesc     = "JSON file with words for import"
	flagOverrideDesc = "Overwrite colliding entries on import"
)

const requestTimeout = 150 * time.Second

func main() {
	urlFlag := flag.String("url", nats.DefaultURL, flagURLDesc)
	subjectFlag := flag.String("subject", "lexicon.dictionary", flagSubjectDesc)
	actionFlag := flag.String("action", worker.ActionList, flagActionDesc)
	surfaceFlag := flag.String("surface", "", flagSurfaceDesc)
	readingFlag := flag.String("pronunciation", "", flagReadingDesc)
	accentFlag := flag.Int("accent", 0, flagAccentDesc)
	typeFlag := flag.String("type", "", flagTypeDesc)
	priorityFlag := flag.Int("priority", userdict.DefaultPriority, flagPriorityDesc)
	uuidFlag := flag.String("uuid", "", flagUUIDDesc)
	fileFlag := flag.String("file", "", flagFileDesc)
	overrideFlag := flag.Bool("override", false, flagOverrideDesc)
	flag.Parse()

	request, err := buildRequest(
		*actionFlag, *surfaceFlag, *readingFlag, *typeFlag, *uuidFlag, *fileFlag,
		*accentFlag, *priorityFlag, *overrideFlag,
	)
	if err != nil {
		log.Fatalf("Invalid request: %v", err)
	}

	response, err := send(*urlFlag, *subjectFlag, request)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}

	output, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render response: %v", err)
	}

	fmt.Println(string(output))

	if response.Status != worker.StatusOK {
		os.Exit(1)
	}
}

func buildRequest(
	action, surface, pronunciation, wordType, wordUUID, file string,
	accentType, priority int,
	override bool,
) (*worker.Request, error) {
	request := &worker.Request{
		Action:   action,
		WordUUID: wordUUID,
		Override: override,
	}

	switch action {
	case worker.ActionAdd, worker.ActionUpdate:
		request.Word = &worker.WordPayload{
			Surface:       surface,
			Pronunciation: pronunciation,
			AccentType:    accentType,
			WordType:      wordType,
			Priority:      &priority,
		}
	case worker.ActionImport:
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read import file '%s': %w", file, err)
		}

		err = json.Unmarshal(data, &request.Words)
		if err != nil {
			return nil, fmt.Errorf("failed to parse import file '%s': %w", file, err)
		}
	case worker.ActionList, worker.ActionDelete, worker.ActionExport:
	default:
		return nil, fmt.Errorf("unsupported action '%s'", action)
	}

	return request, nil
}

func send(url, subject string, request *worker.Request) (*worker.Response, error) {
	natsConnection, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	defer natsConnection.Close()

	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	msg, err := natsConnection.Request(subject, data, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("request on subject '%s' failed: %w", subject, err)
	}

	var response worker.Response

	err = json.Unmarshal(msg.Data, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}
