package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repohub/repohub/internal/model"
)

func TestParsePorcelainV2CleanRepo(t *testing.T) {
	output := `# branch.oid 1234567890abcdef1234567890abcdef12345678
# branch.head main
# branch.upstream origin/main
# branch.ab +0 -0
`
	st := parsePorcelainV2(output)

	assert.Equal(t, "main", st.Branch)
	assert.Equal(t, "1234567", st.CommitHash)
	assert.False(t, st.DetachedHead)
	assert.Equal(t, "origin/main", st.Upstream)
	assert.Equal(t, 0, st.Ahead)
	assert.Equal(t, 0, st.Behind)
	assert.False(t, st.IsDirty())
}

func TestParsePorcelainV2DirtyRepo(t *testing.T) {
	output := `# branch.oid abcdef1234567890abcdef1234567890abcdef12
# branch.head feature/login
# branch.upstream origin/feature/login
# branch.ab +2 -1
1 .M N... 100644 100644 100644 aaa bbb internal/api.go
1 M. N... 100644 100644 100644 aaa bbb internal/handler.go
1 .D N... 100644 100644 100644 aaa bbb docs/old.md
1 A. N... 000000 100644 100644 000 bbb new_file.go
2 R. N... 100644 100644 100644 aaa bbb R100 renamed.go	orig.go
? untracked1.go
? untracked2.go
! ignored.log
u UU N... 100644 100644 100644 100644 aaa bbb ccc conflicted.go
`
	st := parsePorcelainV2(output)

	assert.Equal(t, "feature/login", st.Branch)
	assert.Equal(t, 2, st.Ahead)
	assert.Equal(t, 1, st.Behind)

	assert.Equal(t, 1, st.Modified, "worktree-modified")
	assert.Equal(t, 1, st.Deleted)
	assert.Equal(t, 1, st.Added)
	assert.Equal(t, 2, st.Untracked)
	assert.Equal(t, 1, st.Conflict)
	assert.Equal(t, 3, st.Staged, "M., A. and R. all have index changes")
	assert.Equal(t, 0, st.Other, "ignored entries are not counted anywhere")
	assert.True(t, st.IsDirty())
}

func TestParsePorcelainV2DetachedHead(t *testing.T) {
	output := `# branch.oid fedcba9876543210fedcba9876543210fedcba98
# branch.head (detached)
`
	st := parsePorcelainV2(output)

	assert.True(t, st.DetachedHead)
	assert.Empty(t, st.Branch)
	assert.Equal(t, "fedcba9", st.CommitHash)
	assert.False(t, st.HasUpstream())
}

func TestParsePorcelainV2NoUpstream(t *testing.T) {
	output := `# branch.oid 1111111222222233333334444444555555566666
# branch.head main
? scratch.txt
`
	st := parsePorcelainV2(output)

	assert.False(t, st.HasUpstream())
	assert.Equal(t, 0, st.Ahead)
	assert.Equal(t, 0, st.Behind)
	assert.Equal(t, 1, st.Untracked)
}

func TestParsePorcelainV2UnknownMarkersDegrade(t *testing.T) {
	output := `# branch.head main
1 .Z N... 100644 100644 100644 aaa bbb weird.go
z something-new-from-future-git
`
	st := parsePorcelainV2(output)

	// Unknown markers land in Other so counts never silently drop files.
	assert.Equal(t, 2, st.Other)
	assert.True(t, st.IsDirty())
}

func TestParsePorcelainV2TypeChange(t *testing.T) {
	output := "1 .T N... 100644 120000 120000 aaa bbb link.go\n"
	st := parsePorcelainV2(output)
	assert.Equal(t, 1, st.Modified, "type changes count as modifications")
}

func TestParsePorcelainV2Empty(t *testing.T) {
	st := parsePorcelainV2("")
	assert.NotNil(t, st)
	assert.False(t, st.IsDirty())
	assert.Equal(t, &model.RepoStatus{}, st)
}

func TestParsePorcelainV2MalformedLines(t *testing.T) {
	output := "1 \n# branch.head\n"
	st := parsePorcelainV2(output)
	assert.Equal(t, 1, st.Other, "too-short change line degrades to Other")
	assert.Empty(t, st.Branch, "truncated header is ignored")
}
