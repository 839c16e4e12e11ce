package schema

// Custom string types for type safety.
type (
	// Treat is the treatment indicator carried by each specification row.
	Treat string

	// DesignKind names the adoption design selected for a roster.
	DesignKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// Weighting names the weighting scheme applied in stage three.
	Weighting string

	// LogLevel is the minimum level emitted by the CLI logger.
	LogLevel string
)

// Treatment indicators.
const (
	TreatedTreat Treat = "1"  // treated silo, actual cohort
	ControlTreat Treat = "0"  // control silo
	RITreat      Treat = "-1" // synthetic randomization-inference row
)

// All designs supported.
const (
	CommonDesign    DesignKind = "common"
	StaggeredDesign DesignKind = "staggered"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All weighting schemes supported.
const (
	StandardWeighting Weighting = "standard" // default
)

// All log levels supported.
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info" // default
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Roster sentinels and literals.
const (
	ControlSentinel = "control" // treatment_time value for never-treated silos
	NoCovariates    = "none"    // covariates value when no covariates apply
	SubFieldSep     = ";"       // separator inside diff_times, gt and covariates
)

// Roster column names.
const (
	ColSiloName      = "silo_name"
	ColTreatmentTime = "treatment_time"
	ColStartTime     = "start_time"
	ColEndTime       = "end_time"
	ColCovariates    = "covariates"
)

// Specification column names.
const (
	ColGvar                   = "gvar"
	ColTreat                  = "treat"
	ColDiffTimes              = "diff_times"
	ColGT                     = "gt"
	ColRI                     = "RI"
	ColCommonTreatmentTime    = "common_treatment_time"
	ColWeights                = "weights"
	ColDiffEstimate           = "diff_estimate"
	ColDiffVar                = "diff_var"
	ColDiffEstimateCovariates = "diff_estimate_covariates"
	ColDiffVarCovariates      = "diff_var_covariates"
	ColDateFormat             = "date_format"
	ColFreq                   = "freq"
)

// RosterColumns lists the roster header in canonical order.
var RosterColumns = []string{ColSiloName, ColTreatmentTime, ColStartTime, ColEndTime, ColCovariates}

// StaggeredColumns lists the staggered specification header in canonical order.
var StaggeredColumns = []string{
	ColSiloName, ColGvar, ColTreat, ColDiffTimes, ColGT, ColRI,
	ColStartTime, ColEndTime,
	ColDiffEstimate, ColDiffVar, ColDiffEstimateCovariates, ColDiffVarCovariates,
	ColCovariates, ColDateFormat, ColFreq,
}

// CommonColumns lists the common-adoption specification header in canonical order.
var CommonColumns = []string{
	ColSiloName, ColTreat, ColCommonTreatmentTime,
	ColStartTime, ColEndTime, ColWeights,
	ColDiffEstimate, ColDiffVar, ColDiffEstimateCovariates, ColDiffVarCovariates,
	ColCovariates, ColDateFormat, ColFreq,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidWeightings lists all valid weighting schemes.
var ValidWeightings = map[Weighting]struct{}{
	StandardWeighting: {},
}

// ValidTreats lists all valid treatment indicators.
var ValidTreats = map[Treat]struct{}{
	TreatedTreat: {},
	ControlTreat: {},
	RITreat:      {},
}
