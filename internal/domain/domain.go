// Package domain holds the operator-console records and the pure rules
// relating them: rank ordering, leadership, unlock status, theme accents.
package domain

// User is the profiled operator. ID and Email are identity-derived and never
// user-editable; the session controller is their only writer.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Points       int        `json:"points"`
	Rank         int        `json:"rank"`
	TeamID       string     `json:"teamId,omitempty"`
	Achievements []string   `json:"achievements"`
	ThemeColor   ThemeColor `json:"themeColor,omitempty"`
}

// UnrankedSentinel is the rank assigned to accounts the ranking service has
// not scored yet.
const UnrankedSentinel = 999

// Team is a faction. Members is ordered: position 0 is the leader and the
// rest of the system relies on that for authorization.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Score   int      `json:"score"`
	Rank    int      `json:"rank"`
	Motto   string   `json:"motto"`
}

// ProposalStatus lifecycle is decided externally; clients only read it.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a community-submitted change request. Author is a display
// name, not a user foreign key. Vote counters only ever increase.
type Proposal struct {
	ID          string         `json:"id"`
	Author      string         `json:"author"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
	Status      ProposalStatus `json:"status"`
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a static catalog entry. "Unlocked" is not stored here; it
// is membership of the id in User.Achievements.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
}

// Project is a read-only mission-archive entry.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Date        string   `json:"date"`
	TechStack   []string `json:"techStack"`
}
