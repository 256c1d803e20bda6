// Package playerapi maps the player operations onto HTTP calls against the player service.
//
// Every operation comes in up to four forms:
//
//   - a plain form that returns the raw exchange without looking at the status;
//   - an AndParse form that requires status 200 and decodes the body;
//   - an ExpectingFailure form that requires a given non-2xx status and returns the raw exchange;
//   - for create and update, a WithValidation form that performs the write, validates the
//     response, then fetches the player again and checks that the change was really persisted.
package playerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/servicedef"
	"github.com/player-qa/player-contract-tests/validate"
)

// DefaultEditor is used for create and update when no editor is given.
const DefaultEditor = string(servicedef.RoleSupervisor)

type Operation string

const (
	OpCreate  Operation = "create player"
	OpUpdate  Operation = "update player"
	OpDelete  Operation = "delete player"
	OpGetByID Operation = "get player by ID"
	OpGetAll  Operation = "get all players"
)

// DefaultResponseTimeBudget returns the soft response time limit for an operation. Exceeding it
// is logged and recorded but does not fail anything.
func DefaultResponseTimeBudget(op Operation) time.Duration {
	switch op {
	case OpDelete, OpGetByID:
		return 3000 * time.Millisecond
	default:
		return 5000 * time.Millisecond
	}
}

// DecodeError means a response body could not be decoded into the expected shape.
type DecodeError struct {
	Operation Operation
	Body      string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: can't decode response body (%s): %s", e.Operation, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type Service struct {
	client   *client.Client
	schemas  *validate.SchemaSet
	logger   logrus.FieldLogger
	recorder client.Recorder
	budgets  map[Operation]time.Duration
}

func New(c *client.Client, schemas *validate.SchemaSet, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{client: c, schemas: schemas, logger: logger, recorder: nopRecorder{}}
}

type nopRecorder struct{}

func (nopRecorder) Attach(string, string) {}

// WithResponseTimeBudget returns a copy of the service with a different soft time limit for op.
func (s *Service) WithResponseTimeBudget(op Operation, budget time.Duration) *Service {
	s1 := *s
	s1.budgets = make(map[Operation]time.Duration, len(s.budgets)+1)
	for k, v := range s.budgets {
		s1.budgets[k] = v
	}
	s1.budgets[op] = budget
	return &s1
}

func (s *Service) responseTimeBudget(op Operation) time.Duration {
	if budget, ok := s.budgets[op]; ok {
		return budget
	}
	return DefaultResponseTimeBudget(op)
}

// WithLogger returns a copy of the service, and of its HTTP client, that logs to logger.
func (s *Service) WithLogger(logger logrus.FieldLogger) *Service {
	s1 := *s
	s1.logger = logger
	s1.client = s.client.WithLogger(logger)
	return &s1
}

// WithRecorder returns a copy of the service, and of its HTTP client, that sends diagnostic
// attachments to recorder.
func (s *Service) WithRecorder(recorder client.Recorder) *Service {
	s1 := *s
	s1.recorder = recorder
	s1.client = s.client.WithRecorder(recorder)
	return &s1
}

func (s *Service) Schemas() *validate.SchemaSet {
	return s.schemas
}

func editorOrDefault(editor string) string {
	if editor == "" {
		return DefaultEditor
	}
	return editor
}

func (s *Service) step(op Operation, fields logrus.Fields) logrus.FieldLogger {
	log := s.logger.WithField("operation", string(op)).WithFields(fields)
	log.Info("step")
	s.recorder.Attach("Step", fmt.Sprintf("%s %v", op, fields))
	return log
}

func (s *Service) finish(op Operation, log logrus.FieldLogger, ex client.Exchange, err error) (client.Exchange, error) {
	if err != nil {
		return ex, fmt.Errorf("%s: %w", op, err)
	}
	if terr := validate.ResponseTime(ex, s.responseTimeBudget(op)); terr != nil {
		log.WithField("elapsed", ex.Elapsed.Milliseconds()).Warn(terr.Error())
		s.recorder.Attach("Slow response", terr.Error())
	}
	return ex, nil
}

// Create sends the create request. The create endpoint takes its input as query parameters on a
// GET request.
func (s *Service) Create(ctx context.Context, editor string, req servicedef.PlayerCreateRequest) (client.Exchange, error) {
	editor = editorOrDefault(editor)
	log := s.step(OpCreate, logrus.Fields{"editor": editor, "login": req.Login.StringValue()})
	ex, err := s.client.GetWithQuery(ctx, servicedef.WithEditor(servicedef.EndpointCreate, editor), req.QueryParams())
	return s.finish(OpCreate, log, ex, err)
}

// Update sends only the fields that are set in req.
func (s *Service) Update(ctx context.Context, editor string, id int64, req servicedef.PlayerUpdateRequest) (client.Exchange, error) {
	editor = editorOrDefault(editor)
	log := s.step(OpUpdate, logrus.Fields{"editor": editor, "playerId": id})
	endpoint := servicedef.WithID(servicedef.WithEditor(servicedef.EndpointUpdate, editor), id)
	ex, err := s.client.Patch(ctx, endpoint, req)
	return s.finish(OpUpdate, log, ex, err)
}

// Delete sends the ID in a JSON body. The editor is used exactly as given, so that an empty or
// malformed editor can be tested.
func (s *Service) Delete(ctx context.Context, editorLogin string, id int64) (client.Exchange, error) {
	log := s.step(OpDelete, logrus.Fields{"editor": editorLogin, "playerId": id})
	ex, err := s.client.DeleteWithBody(ctx, servicedef.WithEditor(servicedef.EndpointDelete, editorLogin),
		servicedef.PlayerIDRequest{PlayerID: id})
	return s.finish(OpDelete, log, ex, err)
}

func (s *Service) GetByID(ctx context.Context, id int64) (client.Exchange, error) {
	log := s.step(OpGetByID, logrus.Fields{"playerId": id})
	ex, err := s.client.Post(ctx, servicedef.EndpointGet, servicedef.PlayerIDRequest{PlayerID: id})
	return s.finish(OpGetByID, log, ex, err)
}

func (s *Service) GetAll(ctx context.Context) (client.Exchange, error) {
	log := s.step(OpGetAll, nil)
	ex, err := s.client.Get(ctx, servicedef.EndpointGetAll)
	return s.finish(OpGetAll, log, ex, err)
}

func decode(op Operation, ex client.Exchange, target interface{}) error {
	if err := validate.Status(ex, 200); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(ex.Body, target); err != nil {
		return &DecodeError{Operation: op, Body: string(ex.Body), Err: err}
	}
	return nil
}

func (s *Service) CreateAndParse(ctx context.Context, editor string, req servicedef.PlayerCreateRequest) (servicedef.PlayerCreateResponse, error) {
	var resp servicedef.PlayerCreateResponse
	ex, err := s.Create(ctx, editor, req)
	if err == nil {
		err = decode(OpCreate, ex, &resp)
	}
	return resp, err
}

func (s *Service) UpdateAndParse(ctx context.Context, editor string, id int64, req servicedef.PlayerUpdateRequest) (servicedef.PlayerUpdateResponse, error) {
	var resp servicedef.PlayerUpdateResponse
	ex, err := s.Update(ctx, editor, id, req)
	if err == nil {
		err = decode(OpUpdate, ex, &resp)
	}
	return resp, err
}

// DeleteAndParse requires status 200. The delete endpoint returns no body worth decoding.
func (s *Service) DeleteAndParse(ctx context.Context, editorLogin string, id int64) error {
	ex, err := s.Delete(ctx, editorLogin, id)
	if err != nil {
		return err
	}
	if err := validate.Status(ex, 200); err != nil {
		return fmt.Errorf("%s: %w", OpDelete, err)
	}
	return nil
}

func (s *Service) GetByIDAndParse(ctx context.Context, id int64) (servicedef.PlayerGetResponse, error) {
	var resp servicedef.PlayerGetResponse
	ex, err := s.GetByID(ctx, id)
	if err == nil {
		err = decode(OpGetByID, ex, &resp)
	}
	return resp, err
}

func (s *Service) GetAllAndParse(ctx context.Context) (servicedef.PlayerListResponse, error) {
	var resp servicedef.PlayerListResponse
	ex, err := s.GetAll(ctx)
	if err == nil {
		err = decode(OpGetAll, ex, &resp)
	}
	return resp, err
}

// expectStatus requires exactly the expected status, which must not be 2xx. A 2xx expectation is
// rejected before anything is sent.
func expectStatus(op Operation, expected int, send func() (client.Exchange, error)) (client.Exchange, error) {
	if expected >= 200 && expected < 300 {
		return client.Exchange{}, fmt.Errorf("%s: %d is not a failure status", op, expected)
	}
	ex, err := send()
	if err != nil {
		return ex, err
	}
	if serr := validate.Status(ex, expected); serr != nil {
		return ex, fmt.Errorf("%s: %w", op, serr)
	}
	return ex, nil
}

func (s *Service) CreateExpectingFailure(ctx context.Context, editor string, req servicedef.PlayerCreateRequest, expectedStatus int) (client.Exchange, error) {
	return expectStatus(OpCreate, expectedStatus, func() (client.Exchange, error) {
		return s.Create(ctx, editor, req)
	})
}

func (s *Service) UpdateExpectingFailure(ctx context.Context, editor string, id int64, req servicedef.PlayerUpdateRequest, expectedStatus int) (client.Exchange, error) {
	return expectStatus(OpUpdate, expectedStatus, func() (client.Exchange, error) {
		return s.Update(ctx, editor, id, req)
	})
}

func (s *Service) DeleteExpectingFailure(ctx context.Context, editorLogin string, id int64, expectedStatus int) (client.Exchange, error) {
	return expectStatus(OpDelete, expectedStatus, func() (client.Exchange, error) {
		return s.Delete(ctx, editorLogin, id)
	})
}

func (s *Service) GetByIDExpectingFailure(ctx context.Context, id int64, expectedStatus int) (client.Exchange, error) {
	return expectStatus(OpGetByID, expectedStatus, func() (client.Exchange, error) {
		return s.GetByID(ctx, id)
	})
}

func (s *Service) GetAllExpectingFailure(ctx context.Context, expectedStatus int) (client.Exchange, error) {
	return expectStatus(OpGetAll, expectedStatus, func() (client.Exchange, error) {
		return s.GetAll(ctx)
	})
}
