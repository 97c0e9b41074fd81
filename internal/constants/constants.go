package constants

import "time"

const (
	AppName            = "optimisable"
	Version            = "v0.3.0"
	DefaultKeyringUser = "generation-api-key"
	DefaultConfigDir   = "~/.config/optimisable"
	DefaultScenario    = "scenario.yaml"
	EnvPrefix          = "OPTIMISABLE_"

	// Generation service defaults
	DefaultLLMBaseURL = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 30 * time.Second

	// DefaultSolveTimeout bounds a single optimisation run when the caller does not set one.
	DefaultSolveTimeout = 30 * time.Second

	// HistoryLimit is the number of operator exchanges kept by a session
	HistoryLimit = 5

	// Summary row and column labels of the schedule table
	TotalLabel      = "Total"
	TotalDaysColumn = "Total Days"
	CostColumn      = "Cost"
	MessageColumn   = "Message"
)

// Canonical staff attribute names. Free-form labels are normalized onto these.
const (
	FieldStaffName = "Staff Name"
	FieldCost      = "Staff Cost"
	FieldMinDays   = "Min Working Days per Week"
	FieldMaxDays   = "Max Working Days per Week"
)

// Fixed operator-facing messages
const (
	MsgInfeasible   = "No feasible solution found. Please check staff limits or daily requirements."
	MsgTimedOut     = "Optimisation did not finish before the deadline. Treat the inputs as infeasible until investigated."
	MsgUnparseable  = "I could not interpret your request. Try phrasing it as: 'Set Staff 2 cost to 110' or 'Reduce Friday staff requirement by 1'."
	MsgInvalidStaff = "Invalid staff name or field."
	MsgInvalidDay   = "Invalid day."
	MsgNegative     = "Value must not be negative."
	MsgTooLarge     = "Value is too large."
	MsgUnknownType  = "Unknown command type."
)

// Weekdays is the default ordered horizon, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
