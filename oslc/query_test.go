// ABOUTME: Tests for the oslc.where and oslc.select builders
// ABOUTME: Verifies predicate quoting and joining match the Maximo filter syntax
package oslc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	where := NewWhere().
		NotIn("status", "CLOSE", "CAN").
		EqRaw("historyflag", "0").
		Eq("siteid", "BEDFORD")

	assert.Equal(t,
		`status not in ("CLOSE","CAN") and historyflag=0 and siteid="BEDFORD"`,
		where.String())
}

func TestWhereGte(t *testing.T) {
	where := NewWhere().Gte("changedate", "2026-08-01T00:00:00-05:00")
	assert.Equal(t, `changedate>="2026-08-01T00:00:00-05:00"`, where.String())
}

func TestWhereEmpty(t *testing.T) {
	where := NewWhere()
	assert.True(t, where.Empty())
	assert.Equal(t, "", where.String())

	where.Eq("status", "ACTIVE")
	assert.False(t, where.Empty())
}

func TestSelectWithNested(t *testing.T) {
	sel := Select("itemnum", "siteid", Nested("invbalances"), Nested("invcost"))
	assert.Equal(t, "itemnum,siteid,invbalances{*},invcost{*}", sel)
}
