// Package worker provides a NATS worker that serves user dictionary requests.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/lexicon-service/internal/core"
	"github.com/book-expert/lexicon-service/internal/userdict"
)

// handleMessageTimeout bounds one request including the dictionary rebuild,
// which dominates the latency of every mutation.
const handleMessageTimeout = 120 * time.Second

// Actions accepted on the dictionary subject.
const (
	ActionList   = "list"
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionExport = "export"
)

// Response status codes, one per error kind the dictionary core reports.
const (
	StatusOK              = "ok"
	StatusValidationError = "validation_error"
	StatusNotFound        = "not_found"
	StatusCorruptStore    = "corrupt_store"
	StatusCompileFailed   = "compile_failed"
	StatusInternalError   = "internal_error"
)

// ErrUnknownAction indicates a request whose action is not recognized.
var ErrUnknownAction = errors.New("unknown action")

// WordPayload is the wire shape of a submitted word property. Priority is a
// pointer so an omitted field falls back to the default priority rather than
// the minimum.
type WordPayload struct {
	Surface               string `json:"surface"`
	Pronunciation         string `json:"pronunciation"`
	AccentType            int    `json:"accent_type"`
	WordType              string `json:"word_type,omitempty"`
	AccentAssociativeRule string `json:"accent_associative_rule,omitempty"`
	Priority              *int   `json:"priority,omitempty"`
}

// Request is a dictionary operation submitted over NATS request/reply. Bulk
// imports may carry the payload inline in Words or reference an object store
// key in DataKey.
type Request struct {
	Action   string                             `json:"action"`
	Word     *WordPayload                       `json:"word,omitempty"`
	WordUUID string                             `json:"word_uuid,omitempty"`
	Words    map[string]userdict.SaveFormatWord `json:"words,omitempty"`
	Override bool                               `json:"override,omitempty"`
	DataKey  string                             `json:"data_key,omitempty"`
}

// Response is the reply to a dictionary Request.
type Response struct {
	Status   string                             `json:"status"`
	Error    string                             `json:"error,omitempty"`
	WordUUID string                             `json:"word_uuid,omitempty"`
	Words    map[string]userdict.SaveFormatWord `json:"words,omitempty"`
	DataKey  string                             `json:"data_key,omitempty"`
}

// NatsWorker listens for dictionary requests on a NATS subject and serves them
// from the dictionary manager.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	dictionary     *userdict.UserDictionary
	store          core.ObjectStore
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	dictionary *userdict.UserDictionary,
	store core.ObjectStore,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		dictionary:     dictionary,
		store:          store,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	var request Request

	err := json.Unmarshal(msg.Data, &request)
	if err != nil {
		w.log.Error("Failed to unmarshal dictionary request: %v", err)
		w.respond(msg, &Response{Status: StatusValidationError, Error: "malformed request"})

		return
	}

	w.respond(msg, w.dispatch(ctx, &request))
}

func (w *NatsWorker) dispatch(ctx context.Context, request *Request) *Response {
	switch request.Action {
	case ActionList:
		return w.handleList()
	case ActionAdd:
		return w.handleAdd(ctx, request)
	case ActionUpdate:
		return w.handleUpdate(ctx, request)
	case ActionDelete:
		return w.handleDelete(ctx, request)
	case ActionImport:
		return w.handleImport(ctx, request)
	case ActionExport:
		return w.handleExport(ctx)
	default:
		return errorResponse(fmt.Errorf("%w: '%s'", ErrUnknownAction, request.Action))
	}
}

func (w *NatsWorker) handleList() *Response {
	words, err := w.dictionary.ListWords()
	if err != nil {
		return errorResponse(err)
	}

	saved, err := toSaveFormatMap(words)
	if err != nil {
		return errorResponse(err)
	}

	return &Response{Status: StatusOK, Words: saved}
}

func (w *NatsWorker) handleAdd(ctx context.Context, request *Request) *Response {
	if request.Word == nil {
		return &Response{Status: StatusValidationError, Error: "missing word"}
	}

	wordUUID, err := w.dictionary.ApplyWord(ctx, toWordProperty(request.Word))
	if err != nil {
		return errorResponse(err)
	}

	return &Response{Status: StatusOK, WordUUID: wordUUID}
}

func (w *NatsWorker) handleUpdate(ctx context.Context, request *Request) *Response {
	if request.Word == nil {
		return &Response{Status: StatusValidationError, Error: "missing word"}
	}

	err := w.dictionary.RewriteWord(ctx, request.WordUUID, toWordProperty(request.Word))
	if err != nil {
		return errorResponse(err)
	}

	return &Response{Status: StatusOK}
}

func (w *NatsWorker) handleDelete(ctx context.Context, request *Request) *Response {
	err := w.dictionary.DeleteWord(ctx, request.WordUUID)
	if err != nil {
		return errorResponse(err)
	}

	return &Response{Status: StatusOK}
}

func (w *NatsWorker) handleImport(ctx context.Context, request *Request) *Response {
	saved := request.Words

	if request.DataKey != "" {
		data, err := w.store.Download(ctx, request.DataKey)
		if err != nil {
			return errorResponse(fmt.Errorf("failed to download import payload '%s': %w", request.DataKey, err))
		}

		err = json.Unmarshal(data, &saved)
		if err != nil {
			return &Response{Status: StatusValidationError, Error: "malformed import payload"}
		}
	}

	incoming := make(map[string]userdict.Word, len(saved))

	for key, savedWord := range saved {
		word, err := userdict.FromSaveFormat(savedWord)
		if err != nil {
			return errorResponse(fmt.Errorf("word '%s': %w", key, err))
		}

		incoming[key] = word
	}

	err := w.dictionary.ImportWords(ctx, incoming, request.Override)
	if err != nil {
		return errorResponse(err)
	}

	return &Response{Status: StatusOK}
}

func (w *NatsWorker) handleExport(ctx context.Context) *Response {
	words, err := w.dictionary.ListWords()
	if err != nil {
		return errorResponse(err)
	}

	saved, err := toSaveFormatMap(words)
	if err != nil {
		return errorResponse(err)
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return errorResponse(fmt.Errorf("failed to encode export payload: %w", err))
	}

	key := uuid.NewString() + ".json"

	err = w.store.Upload(ctx, key, data)
	if err != nil {
		return errorResponse(fmt.Errorf("failed to upload export payload: %w", err))
	}

	return &Response{Status: StatusOK, DataKey: key}
}

func (w *NatsWorker) respond(msg *nats.Msg, response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		w.log.Error("Failed to marshal dictionary response: %v", err)

		return
	}

	err = msg.Respond(data)
	if err != nil {
		w.log.Error("Failed to publish dictionary response: %v", err)
	}
}

func toWordProperty(payload *WordPayload) userdict.WordProperty {
	priority := userdict.DefaultPriority
	if payload.Priority != nil {
		priority = *payload.Priority
	}

	return userdict.WordProperty{
		Surface:               payload.Surface,
		Pronunciation:         payload.Pronunciation,
		AccentType:            payload.AccentType,
		WordType:              userdict.WordType(payload.WordType),
		AccentAssociativeRule: payload.AccentAssociativeRule,
		Priority:              priority,
	}
}

func toSaveFormatMap(words map[string]userdict.Word) (map[string]userdict.SaveFormatWord, error) {
	saved := make(map[string]userdict.SaveFormatWord, len(words))

	for key, word := range words {
		savedWord, err := userdict.ToSaveFormat(word)
		if err != nil {
			return nil, fmt.Errorf("word '%s': %w", key, err)
		}

		saved[key] = savedWord
	}

	return saved, nil
}

func errorResponse(err error) *Response {
	response := &Response{Error: err.Error()}

	switch {
	case errors.Is(err, userdict.ErrInvalidWord), errors.Is(err, ErrUnknownAction):
		response.Status = StatusValidationError
	case errors.Is(err, userdict.ErrWordNotFound):
		response.Status = StatusNotFound
	case errors.Is(err, userdict.ErrCorruptStore):
		response.Status = StatusCorruptStore
	case errors.Is(err, userdict.ErrCompileFailed):
		response.Status = StatusCompileFailed
	default:
		response.Status = StatusInternalError
	}

	return response
}
