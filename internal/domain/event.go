package domain

type DefinitionOp string

const (
	DefinitionOpUpsert DefinitionOp = "upsert"
	DefinitionOpDelete DefinitionOp = "delete"
)

// DefinitionEvent arrives from the definitions topic. Delete events only need ID.
type DefinitionEvent struct {
	Op         DefinitionOp    `json:"op"`
	ID         string          `json:"id"`
	Definition CheckDefinition `json:"definition"`

	// Ref identifies the source message for acknowledgement.
	Ref string `json:"-"`
}
