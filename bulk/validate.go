package bulk

// MaxOperations caps the size of one batch.
const MaxOperations = 100

// validateRequest checks the whole batch before any side effect occurs and
// reports the first problem found. Validation is all-or-nothing: a request
// that passes is dispatched in full, one that fails produces zero gateway
// calls. The same request always yields the same error.
func validateRequest(req ExecutionRequest) *Error {
	if len(req.Operations) == 0 {
		return newFieldError("operations must be a non-empty list")
	}
	if len(req.Operations) > MaxOperations {
		return newFieldError("too many operations: %d exceeds the limit of %d", len(req.Operations), MaxOperations)
	}

	for i, op := range req.Operations {
		if err := validateOperation(i, op); err != nil {
			return err
		}
	}

	return nil
}

func validateOperation(i int, op Operation) *Error {
	if op.Doctype == "" {
		return newFieldError("operation %d: doctype is required", i)
	}

	switch op.Type {
	case OpCreate:
		if len(op.Doc) == 0 {
			return newFieldError("operation %d: create requires doc", i)
		}
	case OpUpdate:
		if op.Name == "" {
			return newFieldError("operation %d: update requires name", i)
		}
		if len(op.Patch) == 0 {
			return newFieldError("operation %d: update requires a non-empty patch", i)
		}
	case OpDelete, OpSubmit, OpCancel:
		if op.Name == "" {
			return newFieldError("operation %d: %s requires name", i, op.Type)
		}
	default:
		return newFieldError("operation %d: unrecognized type %q", i, string(op.Type))
	}

	return nil
}
