package repositories

// optionalID prepares an optional id for a uuid-typed query parameter.
// PostgreSQL has no uuid encoding for the empty string, so an absent id
// must travel as NULL rather than "". Queries taking the result compare
// through an explicit ::uuid cast to keep the parameter's type resolution
// independent of any sibling predicates.
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
