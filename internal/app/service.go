// Package app owns the session scope: the shared Team/Proposal collections,
// the static catalogs, and the mutators that transform them with best-effort
// write-through to the external store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"neoncore/console/internal/docstore"
	"neoncore/console/internal/domain"
	"neoncore/console/internal/identity"
	"neoncore/console/internal/session"
	"neoncore/console/internal/util"
)

const (
	usersCollection     = "users"
	teamsCollection     = "teams"
	proposalsCollection = "proposals"
	localCollection     = "local"

	collectionKey = "all"

	snapshotUserKey  = "current_user"
	snapshotTeamsKey = "current_teams"
)

// welcomeBonus is credited to every freshly registered profile document.
const welcomeBonus = 100

var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrNotLeader        = errors.New("only the team leader may edit the team profile")
	ErrTeamNotFound     = errors.New("team not found")
	ErrProposalNotFound = errors.New("proposal not found")
)

// Direction selects which vote counter an operation increments.
type Direction string

const (
	VoteUp   Direction = "up"
	VoteDown Direction = "down"
)

// TeamPatch is a partial team-profile edit. Nil fields are left alone.
type TeamPatch struct {
	Name  *string
	Motto *string
}

// sessionState is what the scope needs from the session controller: the
// current User snapshot, the profile-edit entry point, and change
// notifications.
type sessionState interface {
	CurrentUser() *domain.User
	ApplyProfile(name string, theme domain.ThemeColor) (*domain.User, error)
	Logout(ctx context.Context) error
	OnChange(fn func(session.Snapshot))
}

// Service is the one owned context object holding the shared collections.
// Mutation is serialized through its operations; no component touches the
// collections directly.
type Service struct {
	store    docstore.Store
	local    docstore.Store // optional localStorage-variant snapshots
	provider identity.Provider
	session  sessionState

	mu            sync.Mutex
	teams         []domain.Team
	proposals     []domain.Proposal
	achievements  []domain.Achievement
	projects      []domain.Project
	accent        string
	lastKnownUser *domain.User
}

// New wires the scope to the session controller. The local store may be nil
// when the console runs without the file-backed variant.
func New(store docstore.Store, local docstore.Store, provider identity.Provider, controller sessionState) *Service {
	s := &Service{
		store:        store,
		local:        local,
		provider:     provider,
		session:      controller,
		teams:        copyTeams(seedTeams),
		proposals:    copyProposals(seedProposals),
		achievements: seedAchievements,
		projects:     seedProjects,
		accent:       domain.AccentFor(nil),
	}

	// Theme accent is re-resolved on every User change, never cached across
	// one; the snapshot write keeps the local variant current.
	controller.OnChange(func(snap session.Snapshot) {
		s.mu.Lock()
		s.accent = domain.AccentFor(snap.User)
		s.mu.Unlock()
		s.writeUserSnapshot(snap.User)
	})

	return s
}

// Bootstrap loads the shared collections: the external store wins, then the
// local snapshot, then the seed fixtures. Runs once at process start.
func (s *Service) Bootstrap(ctx context.Context) error {
	var teams []domain.Team
	err := docstore.Load(ctx, s.store, teamsCollection, collectionKey, &teams)
	switch {
	case err == nil && len(teams) > 0:
		s.mu.Lock()
		s.teams = teams
		s.mu.Unlock()
	case errors.Is(err, docstore.ErrNotFound):
		s.adoptLocalTeams(ctx)
		if err := s.store.SetDocument(ctx, teamsCollection, collectionKey, s.Teams()); err != nil {
			log.Printf("app: seeding teams failed: %v", err)
		}
	case err != nil:
		return fmt.Errorf("load teams: %w", err)
	}

	var proposals []domain.Proposal
	err = docstore.Load(ctx, s.store, proposalsCollection, collectionKey, &proposals)
	switch {
	case err == nil && len(proposals) > 0:
		s.mu.Lock()
		s.proposals = proposals
		s.mu.Unlock()
	case errors.Is(err, docstore.ErrNotFound):
		if err := s.store.SetDocument(ctx, proposalsCollection, collectionKey, s.Proposals()); err != nil {
			log.Printf("app: seeding proposals failed: %v", err)
		}
	case err != nil:
		return fmt.Errorf("load proposals: %w", err)
	}

	if s.local != nil {
		var cached domain.User
		if err := docstore.Load(ctx, s.local, localCollection, snapshotUserKey, &cached); err == nil {
			s.mu.Lock()
			s.lastKnownUser = &cached
			s.mu.Unlock()
		}
	}

	return nil
}

// adoptLocalTeams restores the team snapshot the file-backed variant wrote
// on its last run, read once at startup.
func (s *Service) adoptLocalTeams(ctx context.Context) {
	if s.local == nil {
		return
	}
	var teams []domain.Team
	if err := docstore.Load(ctx, s.local, localCollection, snapshotTeamsKey, &teams); err != nil || len(teams) == 0 {
		return
	}
	s.mu.Lock()
	s.teams = teams
	s.mu.Unlock()
}

// Register runs the sign-up flow: provider credential, display alias, then
// the seeded profile document carrying the welcome bonus. Identity errors
// are surfaced; the profile write is not, because the fallback profile
// repairs a missing document on the next session start.
func (s *Service) Register(ctx context.Context, email, password, alias string) error {
	cred, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	name := alias
	if name == "" {
		name = session.FallbackName + "_" + util.ShortID(cred.UID, 4)
	}
	if err := s.provider.UpdateDisplayName(ctx, name); err != nil {
		log.Printf("app: set display name failed: %v", err)
	}

	profile := domain.User{
		ID:           cred.UID,
		Name:         name,
		Email:        email,
		Points:       welcomeBonus,
		Rank:         domain.UnrankedSentinel,
		TeamID:       "",
		Achievements: []string{},
		ThemeColor:   domain.ThemePurple,
	}
	if err := s.store.SetDocument(ctx, usersCollection, cred.UID, profile); err != nil {
		log.Printf("app: seed profile write failed (fallback profile repairs on next load): %v", err)
	}
	return nil
}

// Login surfaces identity errors so the auth form stays editable.
func (s *Service) Login(ctx context.Context, email, password string) error {
	return s.provider.SignIn(ctx, email, password)
}

// Logout delegates to the session controller; the provider notification is
// what clears local state.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// UpdateTeamProfile edits name/motto of a team. Permitted only when the
// acting user is the team's first-listed member. The local change is applied
// first; the store write is best-effort and never rolled back.
func (s *Service) UpdateTeamProfile(ctx context.Context, teamID string, patch TeamPatch) error {
	user := s.session.CurrentUser()
	if user == nil {
		return ErrAuthRequired
	}

	s.mu.Lock()
	idx := -1
	for i := range s.teams {
		if s.teams[i].ID == teamID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrTeamNotFound
	}
	if !s.teams[idx].IsLeader(user.ID) {
		s.mu.Unlock()
		return ErrNotLeader
	}
	if patch.Name != nil {
		s.teams[idx].Name = *patch.Name
	}
	if patch.Motto != nil {
		s.teams[idx].Motto = *patch.Motto
	}
	teams := copyTeams(s.teams)
	s.mu.Unlock()

	s.persistTeams(ctx, teams)
	return nil
}

// Vote increments exactly one counter by exactly one. Repeat votes from the
// same operator count again; there is no de-duplication.
func (s *Service) Vote(ctx context.Context, proposalID string, direction Direction) error {
	if direction != VoteUp && direction != VoteDown {
		return fmt.Errorf("unknown vote direction %q", direction)
	}

	s.mu.Lock()
	idx := -1
	for i := range s.proposals {
		if s.proposals[i].ID == proposalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrProposalNotFound
	}
	if direction == VoteUp {
		s.proposals[idx].Upvotes++
	} else {
		s.proposals[idx].Downvotes++
	}
	proposals := copyProposals(s.proposals)
	s.mu.Unlock()

	s.persistProposals(ctx, proposals)
	return nil
}

// SubmitProposal files a new pending proposal authored by the current
// operator's display name.
func (s *Service) SubmitProposal(ctx context.Context, title, description string) (domain.Proposal, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return domain.Proposal{}, ErrAuthRequired
	}
	if title == "" {
		return domain.Proposal{}, errors.New("title is required")
	}

	proposal := domain.Proposal{
		ID:          util.NewID("prop"),
		Author:      user.Name,
		Title:       title,
		Description: description,
		Status:      domain.ProposalPending,
	}

	s.mu.Lock()
	s.proposals = append(s.proposals, proposal)
	proposals := copyProposals(s.proposals)
	s.mu.Unlock()

	s.persistProposals(ctx, proposals)
	return proposal, nil
}

// SaveProfile applies a settings save: display name and theme color only;
// id and email stay identity-owned. Optimistic like every other mutator.
func (s *Service) SaveProfile(ctx context.Context, name string, theme domain.ThemeColor) error {
	updated, err := s.session.ApplyProfile(name, theme)
	if err != nil {
		return ErrAuthRequired
	}

	if err := s.store.UpdateDocument(ctx, usersCollection, updated.ID, map[string]any{
		"name":       updated.Name,
		"themeColor": updated.ThemeColor,
	}); err != nil {
		log.Printf("app: profile write-through failed (keeping local change): %v", err)
	}
	return nil
}

// Leaderboard returns the teams ordered by score, best first.
func (s *Service) Leaderboard() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SortByScore(s.teams)
}

// Teams returns a copy of the shared team collection.
func (s *Service) Teams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTeams(s.teams)
}

// TeamFor resolves the user's team. A nil result renders the "no team"
// state; it is never an error.
func (s *Service) TeamFor(user *domain.User) *domain.Team {
	if user == nil || user.TeamID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teams {
		if s.teams[i].ID == user.TeamID {
			t := s.teams[i]
			t.Members = append([]string(nil), t.Members...)
			return &t
		}
	}
	return nil
}

// Proposals returns a copy of the shared proposal collection.
func (s *Service) Proposals() []domain.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProposals(s.proposals)
}

// Achievements returns the static catalog.
func (s *Service) Achievements() []domain.Achievement {
	return s.achievements
}

// Projects returns the mission archive.
func (s *Service) Projects() []domain.Project {
	return s.projects
}

// IsUnlocked answers the unlock-status query; the rule lives in domain and
// nowhere else.
func (s *Service) IsUnlocked(user domain.User, achievementID string) bool {
	return domain.IsUnlocked(user, achievementID)
}

// Accent returns the current display accent, kept in sync with the User.
func (s *Service) Accent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accent
}

// LastKnownUser returns the profile cached by the local snapshot, if any.
func (s *Service) LastKnownUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastKnownUser == nil {
		return nil
	}
	u := *s.lastKnownUser
	return &u
}

// persistTeams is the fire-and-forget half of the optimistic update: the
// local change already happened and stays even when the write fails.
func (s *Service) persistTeams(ctx context.Context, teams []domain.Team) {
	if err := s.store.SetDocument(ctx, teamsCollection, collectionKey, teams); err != nil {
		log.Printf("app: team write-through failed (keeping local change): %v", err)
	}
	if s.local != nil {
		if err := s.local.SetDocument(ctx, localCollection, snapshotTeamsKey, teams); err != nil {
			log.Printf("app: team snapshot write failed: %v", err)
		}
	}
}

func (s *Service) persistProposals(ctx context.Context, proposals []domain.Proposal) {
	if err := s.store.SetDocument(ctx, proposalsCollection, collectionKey, proposals); err != nil {
		log.Printf("app: proposal write-through failed (keeping local change): %v", err)
	}
}

func (s *Service) writeUserSnapshot(user *domain.User) {
	if s.local == nil || user == nil {
		return
	}
	if err := s.local.SetDocument(context.Background(), localCollection, snapshotUserKey, user); err != nil {
		log.Printf("app: user snapshot write failed: %v", err)
	}
}

func copyTeams(teams []domain.Team) []domain.Team {
	out := make([]domain.Team, len(teams))
	copy(out, teams)
	for i := range out {
		out[i].Members = append([]string(nil), teams[i].Members...)
	}
	return out
}

func copyProposals(proposals []domain.Proposal) []domain.Proposal {
	out := make([]domain.Proposal, len(proposals))
	copy(out, proposals)
	return out
}
