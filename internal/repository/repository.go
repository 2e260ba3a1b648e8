package repository

import (
	"fmt"

	"github.com/yourusername/courtside/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	StatRow StatRowRepository
	Fixture FixtureRepository
	Pick    PickRepository
	Team    TeamRepository
	Model   ModelRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		StatRow: NewPostgresStatRowRepository(db),
		Fixture: NewPostgresFixtureRepository(db),
		Pick:    NewPostgresPickRepository(db),
		Team:    NewPostgresTeamRepository(db),
		Model:   NewPostgresModelRepository(db),
	}, nil
}
