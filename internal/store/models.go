package store

import "time"

// UserProfile is the persisted account record, one per OAuth identity.
// Profiles are created on first sign-in and merged on every subsequent
// sign-in; the application never hard-deletes them.
type UserProfile struct {
	UID          string       `json:"uid"`
	Email        string       `json:"email"`
	DisplayName  string       `json:"displayName"`
	PhotoURL     string       `json:"photoURL"`
	IsActive     bool         `json:"isActive"`
	Role         string       `json:"role"`
	Preferences  Preferences  `json:"preferences"`
	Subscription Subscription `json:"subscription"`
	Limits       Limits       `json:"limits"`
	Metadata     Metadata     `json:"metadata"`
	Calendar     CalendarLink `json:"calendar"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastLoginAt  time.Time    `json:"lastLoginAt"`
}

type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
	Timezone      string `json:"timezone"`
}

type Subscription struct {
	Plan        string     `json:"plan"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TrialEndsAt *time.Time `json:"trialEndsAt"`
}

type Limits struct {
	Projects    int `json:"projects"`
	StorageMB   int `json:"storage"`
	TeamMembers int `json:"teamMembers"`
	APICalls    int `json:"apiCalls"`
}

type Metadata struct {
	SignUpMethod  string    `json:"signUpMethod"`
	LastSeen      time.Time `json:"lastSeen"`
	LoginCount    int       `json:"loginCount"`
	EmailVerified bool      `json:"emailVerified"`
	PhoneNumber   string    `json:"phoneNumber"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
}

// CalendarLink holds the external calendar connection state embedded in a
// user profile. IsConnected implies a non-empty access token was stored at
// connection time; the token may expire without IsConnected being cleared.
type CalendarLink struct {
	IsConnected  bool          `json:"isConnected"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	TokenExpiry  *time.Time    `json:"tokenExpiry,omitempty"`
	LastSync     *time.Time    `json:"lastSync,omitempty"`
	Calendars    []CalendarRef `json:"calendars"`
}

// CalendarRef is one entry of the cached upstream calendar list.
type CalendarRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsPrimary bool   `json:"isPrimary"`
	IsEnabled bool   `json:"isEnabled"`
}

type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
)

// Job is one schedulable unit of work, exclusively owned by its creating
// user. End is strictly after Start.
type Job struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Location    string      `json:"location,omitempty"`
	Client      string      `json:"client,omitempty"`
	Status      JobStatus   `json:"status"`
	Priority    JobPriority `json:"priority"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// Proposal is a client-facing quote. Subtotal, TaxAmount and TotalAmount are
// cached results of the calculation over Sections and TaxRate, recomputed and
// persisted together whenever sections or the tax rate change.
type Proposal struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"userId"`
	Title              string            `json:"title"`
	ClientName         string            `json:"clientName"`
	ClientEmail        string            `json:"clientEmail"`
	ClientPhone        string            `json:"clientPhone,omitempty"`
	ClientAddress      string            `json:"clientAddress,omitempty"`
	ProjectAddress     string            `json:"projectAddress,omitempty"`
	ProjectDescription string            `json:"projectDescription,omitempty"`
	EstimatedStartDate time.Time         `json:"estimatedStartDate"`
	EstimatedDuration  int               `json:"estimatedDuration"`
	Sections           []ProposalSection `json:"sections"`
	Subtotal           float64           `json:"subtotal"`
	TaxRate            float64           `json:"taxRate"`
	TaxAmount          float64           `json:"taxAmount"`
	TotalAmount        float64           `json:"totalAmount"`
	Terms              string            `json:"terms,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Status             ProposalStatus    `json:"status"`
	ValidUntil         time.Time         `json:"validUntil"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// ProposalSection groups ordered line items under a title. Subtotal caches
// the sum of its items' totals.
type ProposalSection struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Items       []ProposalItem `json:"items"`
	Subtotal    float64        `json:"subtotal"`
}

type ItemCategory string

const (
	ItemCategoryMaterials ItemCategory = "materials"
	ItemCategoryLabor     ItemCategory = "labor"
	ItemCategoryEquipment ItemCategory = "equipment"
	ItemCategoryOther     ItemCategory = "other"
)

// ProposalItem is one line of a proposal section. TotalPrice caches
// round(Quantity * UnitPrice, 2).
type ProposalItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit"`
	UnitPrice   float64      `json:"unitPrice"`
	TotalPrice  float64      `json:"totalPrice"`
	Category    ItemCategory `json:"category"`
}

// CompanyInfo is the per-user company profile used on proposals and PDFs.
type CompanyInfo struct {
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Website   string    `json:"website"`
	LogoURL   string    `json:"logoUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
}
