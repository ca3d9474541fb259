package model

// Sex is the closed set of values the person directory reports. Unknown is
// the safe default when a lookup misses; it never triggers gender exclusion.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Person holds the directory details used for overlap annotation. It is not
// persisted locally; the directory is the source of truth.
type Person struct {
	Ref  string
	Name string
	Sex  Sex
}
