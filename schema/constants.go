package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for project storage.
	DatabaseBackend string

	// CalculationMode represents the penalty model applied to a calculation.
	CalculationMode string

	// ProjectType represents the contract family of a project.
	ProjectType string

	// ProjectStatus represents the lifecycle phase of a project.
	ProjectStatus string

	// ActionStatus represents the progress of a mitigation action.
	ActionStatus string

	// DeadlineType represents the kind of contractual deadline.
	DeadlineType string

	// ChangeStatus represents the workflow state of a change request.
	ChangeStatus string

	// ChangePriority represents the urgency of a change request.
	ChangePriority string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // in-memory, lost on exit
)

// All calculation modes supported.
const (
	PVMode   CalculationMode = "pv" // default
	SeedMode CalculationMode = "seed"
)

// All project types supported.
const (
	EPCType            ProjectType = "EPC"
	IPPSelfConsumption ProjectType = "IPP Autoconsommation"
	AMOType            ProjectType = "AMO"
	EPCHVACType        ProjectType = "EPC CVC"
	AuditType          ProjectType = "Audit"
	EMSColdType        ProjectType = "EMS-Froid"
	PVInjectionType    ProjectType = "PV Injection"
	PublicServiceType  ProjectType = "Prestation Intellectuelle AO Public"
	PublicWorksType    ProjectType = "Travaux AO Public"
)

// All project statuses supported, in lifecycle order.
const (
	StatusO5 ProjectStatus = "O5"
	StatusO6 ProjectStatus = "O6"
	StatusP1 ProjectStatus = "P1"
	StatusP2 ProjectStatus = "P2"
	StatusP3 ProjectStatus = "P3"
	StatusP4 ProjectStatus = "P4"
	StatusP5 ProjectStatus = "P5"
	StatusP6 ProjectStatus = "P6"
)

// Mitigation action statuses.
const (
	ActionTodo ActionStatus = "À Faire"
	ActionDone ActionStatus = "Terminé"
)

// Deadline types.
const (
	DeadlineDue     DeadlineType = "Échéance"
	DeadlinePayment DeadlineType = "Jalon de Paiement"
)

// Change request statuses.
const (
	ChangeRequested   ChangeStatus = "Demandé"
	ChangeInAnalysis  ChangeStatus = "En Analyse"
	ChangeApproved    ChangeStatus = "Approuvé"
	ChangeRejected    ChangeStatus = "Rejeté"
	ChangeImplemented ChangeStatus = "Implémenté"
)

// Change request priorities.
const (
	PriorityLow    ChangePriority = "Faible"
	PriorityMedium ChangePriority = "Moyenne"
	PriorityHigh   ChangePriority = "Élevée"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCalculationModes lists all valid calculation modes.
var ValidCalculationModes = map[CalculationMode]struct{}{
	PVMode:   {},
	SeedMode: {},
}

// ValidProjectTypes lists all valid project types.
var ValidProjectTypes = map[ProjectType]struct{}{
	EPCType:            {},
	IPPSelfConsumption: {},
	AMOType:            {},
	EPCHVACType:        {},
	AuditType:          {},
	EMSColdType:        {},
	PVInjectionType:    {},
	PublicServiceType:  {},
	PublicWorksType:    {},
}

// ValidProjectStatuses lists all valid project statuses.
var ValidProjectStatuses = map[ProjectStatus]struct{}{
	StatusO5: {}, StatusO6: {},
	StatusP1: {}, StatusP2: {}, StatusP3: {}, StatusP4: {}, StatusP5: {}, StatusP6: {},
}

// ValidActionStatuses lists all valid mitigation action statuses.
var ValidActionStatuses = map[ActionStatus]struct{}{
	ActionTodo: {},
	ActionDone: {},
}

// ValidDeadlineTypes lists all valid deadline types.
var ValidDeadlineTypes = map[DeadlineType]struct{}{
	DeadlineDue:     {},
	DeadlinePayment: {},
}

// ValidChangeStatuses lists all valid change request statuses.
var ValidChangeStatuses = map[ChangeStatus]struct{}{
	ChangeRequested:   {},
	ChangeInAnalysis:  {},
	ChangeApproved:    {},
	ChangeRejected:    {},
	ChangeImplemented: {},
}

// ValidChangePriorities lists all valid change request priorities.
var ValidChangePriorities = map[ChangePriority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

// IsPending reports whether the change request still awaits a decision.
func (s ChangeStatus) IsPending() bool {
	return s == ChangeRequested || s == ChangeInAnalysis
}

// IsCommitted reports whether the change request cost is committed to the project.
func (s ChangeStatus) IsCommitted() bool {
	return s == ChangeApproved || s == ChangeImplemented
}
