package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/types"
)

func TestNewResult(t *testing.T) {
	r := knowledge.MustLoad(types.VariantJava)

	got := NewResult(r, "parameter-type-mismatch", "array-out-of-bounds", "parameter-type-mismatch")

	assert.Equal(t, []knowledge.Category{"array-out-of-bounds", "parameter-type-mismatch"}, got.Categories())
	assert.Equal(t, 2, got.Len())
}

func TestNewResult_UnknownCategoryPanics(t *testing.T) {
	r := knowledge.MustLoad(types.VariantJava)

	assert.Panics(t, func() { NewResult(r, "jsp-tag-error") })
}

func TestResult_CategoriesIsACopy(t *testing.T) {
	r := knowledge.MustLoad(types.VariantJava)
	res := NewResult(r, "extra-brace")

	cats := res.Categories()
	cats[0] = "changed"

	assert.True(t, res.Contains("extra-brace"))
}

func TestResult_Zero(t *testing.T) {
	var res Result
	assert.True(t, res.Empty())
	assert.Empty(t, res.Strings())
	assert.Equal(t, 0, res.Len())
}
