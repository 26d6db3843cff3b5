package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Semantic version of the contracts packed into a single integer as
// major*1_000_000 + minor*1_000 + patch. It must match the VERSION file.
const (
	Version = 0*1_000_000 + 1*1_000 + 0

	// MinUpdatableVersion is the oldest deployed version that can be updated
	// to Version without data migration.
	MinUpdatableVersion = 0*1_000_000 + 1*1_000 + 0
)

// Update exceptions thrown by CheckVersion.
const (
	ErrVersionMismatch = "previous version mismatch"
	ErrAlreadyUpdated  = "contract is already of the latest version"
)

// CheckVersion panics if contract of version from can't be updated to the
// current Version.
func CheckVersion(from int) {
	switch {
	case from == Version:
		panic(ErrAlreadyUpdated + ": " + std.Itoa10(Version))
	case from < MinUpdatableVersion:
		panic(ErrVersionMismatch + ": expected >=" + std.Itoa10(MinUpdatableVersion))
	}
}

// AppendVersion adds Version to the update data so that _deploy of the new
// code can check it.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
