package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/estately/api/internal/pool"
	"github.com/estately/api/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// Agent represents a listing agent account.
type Agent struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"-"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Gender     string    `json:"gender"`
	Status     string    `json:"status"`
	Role       string    `json:"role"`
	Password   password  `json:"-"`
	Experience int32     `json:"experience"`
}

// password holds the plaintext (optional) and hashed password
type password struct {
	plaintext *string
	hash      []byte
}

// Set hashes a plaintext password and stores both plaintext and hash
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintextPassword
	p.hash = hash
	return nil
}

// Matches checks if a plaintext password matches the stored hash
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// ValidateAgent checks that all required agent fields are present and sane.
func ValidateAgent(v *validator.Validator, agent *Agent) {
	v.Check(agent.Name != "", "name", "must be provided")
	v.Check(len(agent.Name) <= 500, "name", "must not be more than 500 bytes long")

	v.Check(agent.Phone != "", "phone", "must be provided")

	ValidateEmail(v, agent.Email)

	v.Check(agent.Gender != "", "gender", "must be provided")
	v.Check(agent.Status != "", "status", "must be provided")
	v.Check(agent.Role != "", "role", "must be provided")

	v.Check(agent.Experience >= 0, "experience", "must be zero or more")

	if agent.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *agent.Password.plaintext)
	}

	if agent.Password.hash == nil {
		panic("missing password hash for agent")
	}
}

// ValidateEmail checks email presence and format
func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

// ValidatePasswordPlaintext checks password presence and length
func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

// AgentModel wraps the connection pool for agent table operations.
type AgentModel struct {
	Pool *pool.Pool
}

// GetAll retrieves every agent, oldest first. Password hashes are not read.
func (m AgentModel) GetAll() ([]*Agent, error) {
	query := `
		SELECT id, created_at, name, phone, email, gender, status, role, experience
		FROM agent
		ORDER BY id ASC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	rows, err := lease.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []*Agent{}

	for rows.Next() {
		var agent Agent
		err := rows.Scan(
			&agent.ID,
			&agent.CreatedAt,
			&agent.Name,
			&agent.Phone,
			&agent.Email,
			&agent.Gender,
			&agent.Status,
			&agent.Role,
			&agent.Experience,
		)
		if err != nil {
			return nil, pool.Classify(err)
		}
		agents = append(agents, &agent)
	}

	if err = rows.Err(); err != nil {
		return nil, pool.Classify(err)
	}

	return agents, nil
}

// Insert adds a new agent after checking the name is not already taken.
// The check and the insert are two separate statements with no enclosing
// transaction: two concurrent inserts with the same name can both pass the
// check and produce a duplicate row.
func (m AgentModel) Insert(agent *Agent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	taken, err := m.nameTaken(ctx, agent.Name)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateAgentName
	}

	query := `
		INSERT INTO agent (name, phone, email, gender, status, role, password, experience)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	args := []interface{}{
		agent.Name,
		agent.Phone,
		agent.Email,
		agent.Gender,
		agent.Status,
		agent.Role,
		agent.Password.hash,
		agent.Experience,
	}

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, args...).Scan(&agent.ID, &agent.CreatedAt)
	if err != nil {
		return pool.Classify(err)
	}

	return nil
}

// nameTaken reports whether an agent with the given name already exists.
func (m AgentModel) nameTaken(ctx context.Context, name string) (bool, error) {
	query := `
		SELECT id
		FROM agent
		WHERE name = $1`

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer lease.Release()

	var id int64

	err = lease.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, nil
		default:
			return false, pool.Classify(err)
		}
	}

	return true, nil
}

// GetByEmail fetches an agent by email, including the password hash, for
// the login credential check.
func (m AgentModel) GetByEmail(email string) (*Agent, error) {
	query := `
		SELECT id, created_at, name, phone, email, gender, status, role, password, experience
		FROM agent
		WHERE email = $1`

	var agent Agent

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, email).Scan(
		&agent.ID,
		&agent.CreatedAt,
		&agent.Name,
		&agent.Phone,
		&agent.Email,
		&agent.Gender,
		&agent.Status,
		&agent.Role,
		&agent.Password.hash,
		&agent.Experience,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrAgentNotFound
		default:
			return nil, pool.Classify(err)
		}
	}

	return &agent, nil
}

// Delete removes an agent by ID, distinguishing "deleted" from "did not
// exist" via the affected row count.
func (m AgentModel) Delete(id int64) error {
	if id < 1 {
		return ErrAgentNotFound
	}

	query := `
		DELETE FROM agent
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.Pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pool.Classify(err)
	}

	if rowsAffected == 0 {
		return ErrAgentNotFound
	}

	return nil
}
