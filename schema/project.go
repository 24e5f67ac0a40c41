package schema

import "strings"

// ProjectKey identifies a project in its underscore form, e.g. "facebook_react".
type ProjectKey string

// NormalizeProjectKey converts any surface form into the underscore key form.
// It never fails and applying it twice yields the same value.
func NormalizeProjectKey(name string) ProjectKey {
	return ProjectKey(strings.ReplaceAll(strings.TrimSpace(name), "/", "_"))
}

// ToRepoName converts a key into the "owner/repo" form used by the warehouse.
// Only the first underscore is treated as the owner separator; names that already
// contain a slash are returned unchanged.
func ToRepoName(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, "/") || !strings.Contains(name, "_") {
		return name
	}
	return strings.Replace(name, "_", "/", 1)
}

// Key returns the key as a plain string.
func (k ProjectKey) Key() string {
	return string(k)
}

// RepoName returns the warehouse form of the key.
func (k ProjectKey) RepoName() string {
	return ToRepoName(string(k))
}
