package enum

// Record is implemented by every row of an enumeration class. Rows are
// immutable once cached: changing one requires mutating the backing store
// (through the guarded cache operations) and reloading.
type Record interface {
	// EnumID returns the stable integer key of the row, unique within its class.
	EnumID() int64
	// EnumName returns the unique name of the row. Comparison is exact-match.
	EnumName() string
}

// Member is an embeddable base row for enumeration tables. Classes embed it
// and add whatever payload columns they need:
//
//	type Country struct {
//		bun.BaseModel `bun:"table:countries"`
//		enum.Member
//		Region string `bun:"region"`
//	}
type Member struct {
	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// EnumID implements Record.
func (m Member) EnumID() int64 { return m.ID }

// EnumName implements Record.
func (m Member) EnumName() string { return m.Name }
