package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apidto "github.com/kz4killua/wikirec/internal/api/dto"
	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/finder"
)

const finderSessionPath = APIPrefix + "/finder/sessions/{id}"

func (s *Server) registerFinderRoutes() {
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(s.api, huma.Operation{
		OperationID:   "createFinderSession",
		Method:        http.MethodPost,
		Path:          APIPrefix + "/finder/sessions",
		Summary:       "Create finder session",
		Description:   "Starts an interactive finder with three empty slots and returns the token that unlocks it",
		Tags:          []string{"Finder"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateFinderSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFinderSession",
		Method:      http.MethodGet,
		Path:        finderSessionPath,
		Summary:     "Get finder session",
		Description: "Returns the full state of a finder session",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleGetFinderSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteFinderSession",
		Method:        http.MethodDelete,
		Path:          finderSessionPath,
		Summary:       "Close finder session",
		Description:   "Stops pending searches and closes the session's event streams",
		Tags:          []string{"Finder"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteFinderSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSlotQuery",
		Method:      http.MethodPut,
		Path:        finderSessionPath + "/slots/{slot}/query",
		Summary:     "Set slot text",
		Description: "Updates what the user has typed. A title search runs once typing pauses.",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleSetSlotQuery)

	huma.Register(s.api, huma.Operation{
		OperationID: "focusSlot",
		Method:      http.MethodPost,
		Path:        finderSessionPath + "/slots/{slot}/focus",
		Summary:     "Focus slot",
		Description: "Shows the slot's candidate list once the focus grace period passes",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleFocusSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "blurSlot",
		Method:      http.MethodPost,
		Path:        finderSessionPath + "/slots/{slot}/blur",
		Summary:     "Blur slot",
		Description: "Hides the slot's candidate list once the focus grace period passes",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleBlurSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmSlot",
		Method:      http.MethodPost,
		Path:        finderSessionPath + "/slots/{slot}/confirm",
		Summary:     "Confirm candidate",
		Description: "Locks one of the slot's current candidates in as a selection",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleConfirmSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSlot",
		Method:      http.MethodDelete,
		Path:        finderSessionPath + "/slots/{slot}/confirmation",
		Summary:     "Clear selection",
		Description: "Empties the slot so a new title can be searched for",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleClearSlot)

	huma.Register(s.api, huma.Operation{
		OperationID: "setFinderCategory",
		Method:      http.MethodPut,
		Path:        finderSessionPath + "/category",
		Summary:     "Choose category",
		Description: "Sets the kind of item to recommend",
		Tags:        []string{"Finder"},
		Security:    bearer,
	}, s.handleSetFinderCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submitFinder",
		Method:        http.MethodPost,
		Path:          finderSessionPath + "/submit",
		Summary:       "Submit",
		Description:   "Requests recommendations for the confirmed slots. Results arrive on the event stream.",
		Tags:          []string{"Finder"},
		Security:      bearer,
		DefaultStatus: http.StatusAccepted,
	}, s.handleSubmitFinder)
}

func (s *Server) handleCreateFinderSession(ctx context.Context, _ *struct{}) (*apidto.CreateSessionOutput, error) {
	sess, err := s.finder.Create()
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.services.Tokens.GenerateSessionToken(sess.ID())
	if err != nil {
		//nolint:errcheck // The session was never handed out
		_ = s.finder.Close(sess.ID())
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to issue session token")
	}

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &apidto.CreateSessionOutput{
		Body: apidto.CreateSessionResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Session:   snap,
		},
	}, nil
}

func (s *Server) handleGetFinderSession(ctx context.Context, input *apidto.SessionInput) (*apidto.SessionOutput, error) {
	sess, err := s.requireSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &apidto.SessionOutput{Body: snap}, nil
}

func (s *Server) handleDeleteFinderSession(ctx context.Context, input *apidto.SessionInput) (*struct{}, error) {
	if _, err := s.requireSession(ctx, input.SessionID); err != nil {
		return nil, err
	}
	if err := s.finder.Close(input.SessionID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleSetSlotQuery(ctx context.Context, input *apidto.SetQueryInput) (*apidto.SlotOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	return s.slotCommand(ctx, input.SessionID, func(sess *finder.Session) (dto.Slot, error) {
		return sess.SetQuery(ctx, input.Slot, input.Body.Text)
	})
}

func (s *Server) handleFocusSlot(ctx context.Context, input *apidto.SlotInput) (*apidto.SlotOutput, error) {
	return s.slotCommand(ctx, input.SessionID, func(sess *finder.Session) (dto.Slot, error) {
		return sess.Focus(ctx, input.Slot)
	})
}

func (s *Server) handleBlurSlot(ctx context.Context, input *apidto.SlotInput) (*apidto.SlotOutput, error) {
	return s.slotCommand(ctx, input.SessionID, func(sess *finder.Session) (dto.Slot, error) {
		return sess.Blur(ctx, input.Slot)
	})
}

func (s *Server) handleConfirmSlot(ctx context.Context, input *apidto.ConfirmInput) (*apidto.SlotOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	return s.slotCommand(ctx, input.SessionID, func(sess *finder.Session) (dto.Slot, error) {
		return sess.Confirm(ctx, input.Slot, input.Body.Key)
	})
}

func (s *Server) handleClearSlot(ctx context.Context, input *apidto.SlotInput) (*apidto.SlotOutput, error) {
	return s.slotCommand(ctx, input.SessionID, func(sess *finder.Session) (dto.Slot, error) {
		return sess.Clear(ctx, input.Slot)
	})
}

// slotCommand runs fn against the session the caller holds a token for.
func (s *Server) slotCommand(ctx context.Context, sessionID string, fn func(*finder.Session) (dto.Slot, error)) (*apidto.SlotOutput, error) {
	sess, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view, err := fn(sess)
	if err != nil {
		return nil, err
	}
	return &apidto.SlotOutput{Body: view}, nil
}

func (s *Server) handleSetFinderCategory(ctx context.Context, input *apidto.SetCategoryInput) (*apidto.SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	category, err := domain.ParseCategory(input.Body.Category)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	sess, err := s.requireSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SetCategory(ctx, category); err != nil {
		return nil, err
	}

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &apidto.SessionOutput{Body: snap}, nil
}

func (s *Server) handleSubmitFinder(ctx context.Context, input *apidto.SessionInput) (*apidto.SubmitOutput, error) {
	sess, err := s.requireSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	status, err := sess.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return &apidto.SubmitOutput{Body: apidto.SubmitResponse{Status: string(status)}}, nil
}
