package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// In-memory repository fakes backing the engine tests.

type fakeStatRowRepo struct {
	rows []models.StatRow
}

func (f *fakeStatRowRepo) InsertBatch(_ context.Context, rows []models.StatRow) (int, error) {
	existing := make(map[string]bool, len(f.rows))
	for _, r := range f.rows {
		existing[r.GameID+"/"+r.TeamID] = true
	}

	inserted := 0
	for _, r := range rows {
		key := r.GameID + "/" + r.TeamID
		if existing[key] {
			continue
		}
		existing[key] = true
		f.rows = append(f.rows, r)
		inserted++
	}
	return inserted, nil
}

func (f *fakeStatRowRepo) Exists(_ context.Context, gameID, teamID string) (bool, error) {
	for _, r := range f.rows {
		if r.GameID == gameID && r.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStatRowRepo) GetAll(_ context.Context) ([]models.StatRow, error) {
	return append([]models.StatRow(nil), f.rows...), nil
}

func (f *fakeStatRowRepo) GetSince(_ context.Context, cutoff time.Time) ([]models.StatRow, error) {
	var out []models.StatRow
	for _, r := range f.rows {
		if !r.GameTime.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStatRowRepo) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

type fakeFixtureRepo struct {
	fixtures map[string]*models.Fixture
}

func newFakeFixtureRepo(fixtures ...*models.Fixture) *fakeFixtureRepo {
	repo := &fakeFixtureRepo{fixtures: make(map[string]*models.Fixture)}
	for _, f := range fixtures {
		repo.fixtures[f.MatchID] = f
	}
	return repo
}

func (f *fakeFixtureRepo) Upsert(_ context.Context, fixture *models.Fixture) error {
	f.fixtures[fixture.MatchID] = fixture
	return nil
}

func (f *fakeFixtureRepo) GetByID(_ context.Context, matchID string) (*models.Fixture, error) {
	fixture, ok := f.fixtures[matchID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return fixture, nil
}

func (f *fakeFixtureRepo) GetByStatus(_ context.Context, status models.FixtureStatus) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, fixture := range f.fixtures {
		if fixture.Status == status {
			out = append(out, fixture)
		}
	}
	return out, nil
}

func (f *fakeFixtureRepo) GetByDateRange(_ context.Context, start, end time.Time) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, fixture := range f.fixtures {
		if !fixture.StartTime.Before(start) && !fixture.StartTime.After(end) {
			out = append(out, fixture)
		}
	}
	return out, nil
}

type fakePickRepo struct {
	byMatch map[string]*models.Pick
	byID    map[uuid.UUID]*models.Pick
}

func newFakePickRepo(picks ...*models.Pick) *fakePickRepo {
	repo := &fakePickRepo{
		byMatch: make(map[string]*models.Pick),
		byID:    make(map[uuid.UUID]*models.Pick),
	}
	for _, p := range picks {
		repo.byMatch[p.MatchID] = p
		repo.byID[p.ID] = p
	}
	return repo
}

func (f *fakePickRepo) Create(_ context.Context, pick *models.Pick) error {
	if _, exists := f.byMatch[pick.MatchID]; exists {
		return models.ErrPickAlreadyExists
	}
	f.byMatch[pick.MatchID] = pick
	f.byID[pick.ID] = pick
	return nil
}

func (f *fakePickRepo) GetByMatchID(_ context.Context, matchID string) (*models.Pick, error) {
	pick, ok := f.byMatch[matchID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return pick, nil
}

func (f *fakePickRepo) GetByMatchIDs(_ context.Context, matchIDs []string) (map[string]*models.Pick, error) {
	out := make(map[string]*models.Pick)
	for _, id := range matchIDs {
		if pick, ok := f.byMatch[id]; ok {
			out[id] = pick
		}
	}
	return out, nil
}

func (f *fakePickRepo) GetUnsettled(_ context.Context) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range f.byMatch {
		if pick.NeedsSpreadSettlement() || pick.NeedsTotalSettlement() {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (f *fakePickRepo) SetSpreadOutcome(_ context.Context, id uuid.UUID, outcome models.Outcome) error {
	pick, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	if pick.SpreadOutcome != nil {
		return models.ErrOutcomeAlreadySet
	}
	pick.SpreadOutcome = &outcome
	return nil
}

func (f *fakePickRepo) SetTotalOutcome(_ context.Context, id uuid.UUID, outcome models.Outcome) error {
	pick, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	if pick.TotalOutcome != nil {
		return models.ErrOutcomeAlreadySet
	}
	pick.TotalOutcome = &outcome
	return nil
}

func (f *fakePickRepo) GetOutcomeTallies(_ context.Context) (*repository.OutcomeTallies, error) {
	tallies := &repository.OutcomeTallies{}
	for _, pick := range f.byMatch {
		if pick.SpreadOutcome != nil {
			switch *pick.SpreadOutcome {
			case models.OutcomeWin:
				tallies.SpreadWins++
			case models.OutcomeLoss:
				tallies.SpreadLosses++
			case models.OutcomePush:
				tallies.SpreadPushes++
			}
		}
		if pick.TotalOutcome != nil {
			switch *pick.TotalOutcome {
			case models.OutcomeWin:
				tallies.TotalWins++
			case models.OutcomeLoss:
				tallies.TotalLosses++
			case models.OutcomePush:
				tallies.TotalPushes++
			}
		}
	}
	return tallies, nil
}

type fakeTeamRepo struct {
	teams map[string]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[string]*models.Team)}
	for _, t := range teams {
		repo.teams[t.ID] = t
	}
	return repo
}

func (f *fakeTeamRepo) Upsert(_ context.Context, team *models.Team) error {
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetAll(_ context.Context) ([]*models.Team, error) {
	out := make([]*models.Team, 0, len(f.teams))
	for _, t := range f.teams {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeamRepo) GetByCode(_ context.Context, code string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, models.ErrNotFound
}

type fakeModelRepo struct {
	byType map[string]*models.Model
}

func (f *fakeModelRepo) Create(_ context.Context, model *models.Model) error {
	f.byType[model.ModelType] = model
	return nil
}

func (f *fakeModelRepo) GetActiveByType(_ context.Context, modelType string) (*models.Model, error) {
	model, ok := f.byType[modelType]
	if !ok {
		return nil, models.ErrNotFound
	}
	return model, nil
}

func (f *fakeModelRepo) GetByVersion(_ context.Context, name, version string) (*models.Model, error) {
	for _, m := range f.byType {
		if m.Name == name && m.Version == version {
			return m, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeModelRepo) SetActive(_ context.Context, id uuid.UUID) error {
	for _, m := range f.byType {
		m.Active = m.ID == id
	}
	return nil
}
