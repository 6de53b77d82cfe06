package poem

import (
	"testing"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	cases := []struct {
		name    string
		in      CreateInput
		wantErr bool
		author  string
	}{
		{name: "defaults author", in: CreateInput{Title: "Dawn", Content: "Light breaks."}, author: DefaultAuthor},
		{name: "keeps author", in: CreateInput{Title: "Dawn", Content: "x", Author: "Rumi"}, author: "Rumi"},
		{name: "blank author", in: CreateInput{Title: "Dawn", Content: "x", Author: "  "}, author: DefaultAuthor},
		{name: "missing title", in: CreateInput{Content: "x"}, wantErr: true},
		{name: "missing content", in: CreateInput{Title: "x"}, wantErr: true},
		{name: "whitespace title", in: CreateInput{Title: " \n", Content: "x"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateCreate(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.author, got.Author)
		})
	}
}

func TestValidatePatch(t *testing.T) {
	_, err := ValidatePatch(Patch{})
	require.Error(t, err)
	assert.Equal(t, msgNothingToDo, apperr.As(err).Message)

	_, err = ValidatePatch(Patch{Title: strp(""), Author: strp("x")})
	require.Error(t, err)

	_, err = ValidatePatch(Patch{Content: strp("   ")})
	require.Error(t, err)

	for _, blankOnly := range []Patch{
		{Author: strp("")},
		{Author: strp("  ")},
		{Title: strp(""), Content: strp(""), Author: strp("")},
	} {
		_, err = ValidatePatch(blankOnly)
		require.Error(t, err)
		assert.Equal(t, msgNothingToDo, apperr.As(err).Message)
	}

	p, err := ValidatePatch(Patch{Content: strp("New lines."), Author: strp("")})
	require.NoError(t, err)
	require.NotNil(t, p.Author)
	assert.Equal(t, "", *p.Author, "author is stored as sent")

	p, err = ValidatePatch(Patch{Author: strp("Basho")})
	require.NoError(t, err)
	assert.Nil(t, p.Title)
	assert.Equal(t, "Basho", *p.Author)
}

func TestParseID(t *testing.T) {
	_, err := ParseID("not-an-id")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	oid, err := ParseID("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", oid.Hex())
}

func TestPatchApply(t *testing.T) {
	p := &Poem{Title: "a", Content: "b", Author: "c"}
	Patch{Author: strp("d")}.Apply(p)
	assert.Equal(t, &Poem{Title: "a", Content: "b", Author: "d"}, p)
}
