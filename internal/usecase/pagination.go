package usecase

// Page limits shared by the history listings and the HTTP layer.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
