package compiler

const (
	// CUE stage
	ErrCodeCUEContractLoad      = "CUE_CONTRACT_LOAD_ERROR"
	ErrCodeCUEContractMissing   = "CUE_CONTRACT_MISSING_ERROR"
	ErrCodeCUEEndpointExtract   = "CUE_ENDPOINT_EXTRACT_ERROR"
	ErrCodeCUETypeExtract       = "CUE_TYPE_EXTRACT_ERROR"
	ErrCodeCUEValidateTagParse  = "CUE_VALIDATE_TAG_PARSE_ERROR"
	ErrCodeCUERulePartition     = "CUE_RULE_PARTITION_ERROR"

	// IR / collect stage
	ErrCodeCollectNaming = "COLLECT_NAMING_ERROR"

	// Capabilities stage
	ErrCodeCapabilityResolve = "CAPABILITY_RESOLVE_ERROR"

	// Emitters stage
	ErrCodeEmitterIncomplete = "EMITTER_HANDLER_TABLE_INCOMPLETE"
	ErrCodeEmitterStep       = "EMITTER_STEP_ERROR"
	ErrCodeEmitterFormat     = "EMITTER_FORMAT_ERROR"
)

// StableErrorCodes is the canonical registry of pipeline error codes.
var StableErrorCodes = []string{
	ErrCodeCUEContractLoad,
	ErrCodeCUEContractMissing,
	ErrCodeCUEEndpointExtract,
	ErrCodeCUETypeExtract,
	ErrCodeCUEValidateTagParse,
	ErrCodeCUERulePartition,
	ErrCodeCollectNaming,
	ErrCodeCapabilityResolve,
	ErrCodeEmitterIncomplete,
	ErrCodeEmitterStep,
	ErrCodeEmitterFormat,
}
