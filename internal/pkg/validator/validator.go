package validator

import (
	"fmt"
	"strings"

	"github.com/edurag/knowledge-backend/internal/entity"
)

const (
	maxMessageLength = 2000
	maxResultsCap    = 20
)

// Validator checks incoming API request bodies.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	if len([]rune(req.Message)) > maxMessageLength {
		return fmt.Errorf("%w: message exceeds %d characters", entity.ErrInvalidParameter, maxMessageLength)
	}
	if req.MaxResults < 0 || req.MaxResults > maxResultsCap {
		return fmt.Errorf("%w: maxResults must be between 0 and %d", entity.ErrInvalidParameter, maxResultsCap)
	}
	if req.Category != "" {
		if err := entity.Category(req.Category).Validate(); err != nil {
			return fmt.Errorf("%w: category %q", entity.ErrInvalidParameter, req.Category)
		}
	}
	return nil
}

func (v *Validator) ValidateSearch(req *entity.SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if len([]rune(req.Query)) > maxMessageLength {
		return fmt.Errorf("%w: query exceeds %d characters", entity.ErrInvalidParameter, maxMessageLength)
	}
	if req.Limit < 0 || req.Limit > maxResultsCap {
		return fmt.Errorf("%w: limit must be between 0 and %d", entity.ErrInvalidParameter, maxResultsCap)
	}
	if req.Category != "" {
		if err := entity.Category(req.Category).Validate(); err != nil {
			return fmt.Errorf("%w: category %q", entity.ErrInvalidParameter, req.Category)
		}
	}
	return nil
}

func (v *Validator) ValidateExport(req *entity.ExportRequest) error {
	if strings.TrimSpace(req.Answer) == "" {
		return fmt.Errorf("%w: answer", entity.ErrMissingField)
	}
	if err := req.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}
	return nil
}
