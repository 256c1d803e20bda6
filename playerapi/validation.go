package playerapi

import (
	"context"
	"fmt"

	"github.com/player-qa/player-contract-tests/servicedef"
	"github.com/player-qa/player-contract-tests/validate"
)

// CreateWithValidation creates a player and then checks, through an independent fetch, that the
// service stored exactly what was requested.
func (s *Service) CreateWithValidation(ctx context.Context, editor string, req servicedef.PlayerCreateRequest) (servicedef.PlayerCreateResponse, error) {
	var resp servicedef.PlayerCreateResponse
	ex, err := s.Create(ctx, editor, req)
	if err != nil {
		return resp, err
	}
	if err := decode(OpCreate, ex, &resp); err != nil {
		return resp, err
	}
	if err := s.checkSchema(OpCreate, validate.SchemaPlayerCreate, ex.Body); err != nil {
		return resp, err
	}
	if err := validate.Create(resp, req); err != nil {
		return resp, err
	}

	persisted, err := s.getAndCheckSchema(ctx, resp.PlayerID())
	if err != nil {
		return resp, err
	}
	if err := validate.Persistence(persisted, req); err != nil {
		return resp, fmt.Errorf("player %d was not persisted as requested: %w", resp.PlayerID(), err)
	}
	s.logger.WithField("playerId", resp.PlayerID()).Info("player created and verified")
	return resp, nil
}

// UpdateWithValidation fetches the player's current state, applies the update, validates the
// update response, and fetches the player again to check that only the updated fields changed.
func (s *Service) UpdateWithValidation(ctx context.Context, editor string, id int64, update servicedef.PlayerUpdateRequest) (servicedef.PlayerUpdateResponse, error) {
	var resp servicedef.PlayerUpdateResponse
	before, err := s.GetByIDAndParse(ctx, id)
	if err != nil {
		return resp, fmt.Errorf("can't read player %d before update: %w", id, err)
	}

	ex, err := s.Update(ctx, editor, id, update)
	if err != nil {
		return resp, err
	}
	if err := decode(OpUpdate, ex, &resp); err != nil {
		return resp, err
	}
	if err := s.checkSchema(OpUpdate, validate.SchemaPlayerUpdate, ex.Body); err != nil {
		return resp, err
	}
	original := servicedef.PlayerCreateResponse{PlayerResponse: before.PlayerResponse}
	if err := validate.Update(resp, original, update); err != nil {
		return resp, err
	}

	after, err := s.getAndCheckSchema(ctx, id)
	if err != nil {
		return resp, err
	}
	if err := validate.UpdatePersistence(after, before, update); err != nil {
		return resp, fmt.Errorf("update of player %d was not persisted as requested: %w", id, err)
	}
	s.logger.WithField("playerId", id).Info("player updated and verified")
	return resp, nil
}

func (s *Service) getAndCheckSchema(ctx context.Context, id int64) (servicedef.PlayerGetResponse, error) {
	var resp servicedef.PlayerGetResponse
	ex, err := s.GetByID(ctx, id)
	if err != nil {
		return resp, err
	}
	if err := decode(OpGetByID, ex, &resp); err != nil {
		return resp, err
	}
	return resp, s.checkSchema(OpGetByID, validate.SchemaPlayerGet, ex.Body)
}

func (s *Service) checkSchema(op Operation, schema string, body []byte) error {
	if s.schemas == nil {
		return nil
	}
	if err := s.schemas.Check(schema, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
