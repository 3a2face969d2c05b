package videos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The view counter must be bumped by the database itself. A statement
// that read the count into Go and wrote it back would drop hits under
// concurrent detail-page requests.
func TestIncrementViewsIsSingleStatement(t *testing.T) {
	stmt := strings.ToUpper(incrementViewsSQL)

	assert.True(t, strings.HasPrefix(stmt, "UPDATE"))
	assert.Contains(t, stmt, "VIEWS = VIEWS + 1")
	assert.NotContains(t, stmt, "SELECT")
	assert.Contains(t, incrementViewsSQL, "slug = $1")
}
