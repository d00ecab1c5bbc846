package rowmap

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"row-mapper/row"
)

type ValueB struct {
	ID int
	S  string
}

type ValueC struct {
	ID               int
	AdditionalColumn string
}

type ValueA struct {
	B ValueB  `row:"b,nested"`
	C *ValueC `row:"c,nested,propagatenull=id"`
}

func NewValueA(b ValueB, c *ValueC) ValueA { return ValueA{B: b, C: c} }
func NewValueB(id int, s string) ValueB    { return ValueB{ID: id, S: s} }
func NewValueC(id int, additionalColumn string) *ValueC {
	return &ValueC{ID: id, AdditionalColumn: additionalColumn}
}

// PlainA carries no tags, it is configured by YAML or the builder only.
type PlainA struct {
	B ValueB
	C *ValueC
}

type Node struct {
	ID   int
	Next *Node `row:"next,nested"`
}

type Left struct {
	ID    int
	Right *Right `row:"right,nested"`
}

type Right struct {
	Left *Left `row:"left,nested"`
}

type Level0 struct {
	L1 *Level1 `row:"l1,nested"`
}

type Level1 struct {
	L2 *Level2 `row:"l2,nested"`
}

type Level2 struct {
	ID int
}

// Colliding reads b.id both directly and through B.
type Colliding struct {
	BID int    `row:"b_id"`
	B   ValueB `row:"b,nested"`
}

type Broken struct {
	ID int
	F  func()
}

type Owner struct {
	ID   *int
	Name string
}

func (Owner) PropagateNullKey() string { return "id" }

type Pet struct {
	Name  string
	Owner *Owner `row:"owner,nested"`
}

type StrayPet struct {
	Name  string
	Owner Owner `row:"owner,nested"`
}

type Account struct {
	ID   *int `row:"id,propagatenull"`
	Name string
}

type Settings struct {
	Mode    string `row:",nullable"`
	Retries int    `row:",nullable"`
}

type Positive struct {
	ID int
}

var errNegative = errors.New("negative id")

func NewPositive(id int) (*Positive, error) {
	if id < 0 {
		return nil, errNegative
	}

	return &Positive{ID: id}, nil
}

type Audit struct {
	CreatedBy string
}

type Document struct {
	Title string
	Audit `row:",inline"`
}

type Flattened struct {
	*Audit
	Title string
}

type Tagged struct {
	Name    string         `row:"full_name"`
	Comment sql.NullString `row:"comment"`
	Skipped string         `row:"-"`
}

func scenarioRow(t *testing.T, columns []string, values ...any) *row.Values {
	t.Helper()

	r, err := row.New(columns, values)
	require.NoError(t, err)

	return r
}

var scenarioColumns = []string{"b.id", "b.s", "c.id", "c.additionalColumn"}

// registries returns one registry per strategy, both mapping ValueA.
func registries(t *testing.T) map[Strategy]*Registry {
	t.Helper()

	ctor := NewRegistry()
	require.NoError(t, ctor.Register(
		Configure[ValueA](Constructor(NewValueA, "b", "c")),
		Configure[ValueB](Constructor(NewValueB, "id", "s")),
		Configure[ValueC](Constructor(NewValueC, "id", "additionalColumn")),
	))

	return map[Strategy]*Registry{
		StrategyMutable:     NewRegistry(),
		StrategyConstructor: ctor,
	}
}
