package cache

import "strings"

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// Key joins segments into a cache key. Keys are opaque to the Store; the
// namespace structure below is a convention the loader components enforce.
// Two different logical resources must never produce the same key, which the
// builders here guarantee as long as project IDs are unique.
func Key(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

// DirectoryKey holds the full confirmed-project directory.
func DirectoryKey() string {
	return Key("projects", "list")
}

// ProgressMapKey holds the derived project-ID to percent map.
func ProgressMapKey() string {
	return Key("projects", "progress-map")
}

// TransactionsKey holds the full set of transaction details for one project.
func TransactionsKey(projectID string) string {
	return Key("project", projectID, "transactions")
}

// MilestonesKey holds the full milestone list for one project.
func MilestonesKey(projectID string) string {
	return Key("project", projectID, "milestones")
}

// ProjectPrefix matches every per-project resource key, for prefix
// invalidation via DeleteByPrefix.
func ProjectPrefix(projectID string) string {
	return Key("project", projectID) + KeySeparator
}
