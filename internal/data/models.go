package data

import (
	"errors"

	"github.com/estately/api/internal/pool"
)

// Sentinel errors surfaced by the repositories in place of raw store errors.
var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCustomerNotFound = errors.New("customer not found")

	ErrDuplicateAgentName     = errors.New("duplicate agent name")
	ErrDuplicateCategoryTitle = errors.New("duplicate category title")

	// ErrMalformedImages means a stored images value failed to deserialize.
	// That points at a bad producer, not at the caller.
	ErrMalformedImages = errors.New("malformed images data")
)

// Models wraps all repository types over one shared connection pool.
type Models struct {
	Agents     AgentModel
	Properties PropertyModel
	Categories CategoryModel
	Reviews    ReviewModel
	Customers  CustomerModel
	Bank       BankModel
}

// NewModels initializes a Models struct against the given pool.
func NewModels(p *pool.Pool) Models {
	return Models{
		Agents:     AgentModel{Pool: p},
		Properties: PropertyModel{Pool: p},
		Categories: CategoryModel{Pool: p},
		Reviews:    ReviewModel{Pool: p},
		Customers:  CustomerModel{Pool: p},
		Bank:       BankModel{Pool: p},
	}
}
