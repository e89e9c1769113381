package dtree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunholo/lumen/internal/ident"
)

func TestCompile_TrailingWildcardIsExhaustive(t *testing.T) {
	idents := ident.NewStore()
	ok := idents.Intern("Ok")
	shapes := []CaseShape{
		{IsTag: true, Tag: ok},
		{IsWildcard: true},
	}
	tree := Compile(shapes, []ident.Idx{ok, idents.Intern("Err")})
	require.True(t, Exhaustive(tree))
}

func TestCompile_MissingTagIsNotExhaustive(t *testing.T) {
	idents := ident.NewStore()
	ok := idents.Intern("Ok")
	shapes := []CaseShape{
		{IsTag: true, Tag: ok},
	}
	tree := Compile(shapes, []ident.Idx{ok, idents.Intern("Err")})
	require.False(t, Exhaustive(tree))
}

func TestCompile_AllTagsCoveredIsExhaustiveWithoutWildcard(t *testing.T) {
	idents := ident.NewStore()
	ok, errTag := idents.Intern("Ok"), idents.Intern("Err")
	shapes := []CaseShape{
		{IsTag: true, Tag: ok},
		{IsTag: true, Tag: errTag},
	}
	tree := Compile(shapes, []ident.Idx{ok, errTag})
	require.True(t, Exhaustive(tree))
}

func TestCompile_GuardedCaseAloneNeverExhaustive(t *testing.T) {
	idents := ident.NewStore()
	ok := idents.Intern("Ok")
	shapes := []CaseShape{
		{IsWildcard: true, Guarded: true},
	}
	tree := Compile(shapes, []ident.Idx{ok})
	require.False(t, Exhaustive(tree))
}

func TestCompile_GuardedWildcardFollowedByPlainWildcardIsExhaustive(t *testing.T) {
	shapes := []CaseShape{
		{IsWildcard: true, Guarded: true},
		{IsWildcard: true},
	}
	tree := Compile(shapes, nil)
	require.True(t, Exhaustive(tree))
}

func TestCompile_EmptyShapesIsFail(t *testing.T) {
	tree := Compile(nil, nil)
	_, isFail := tree.(*Fail)
	require.True(t, isFail)
	require.False(t, Exhaustive(tree))
}
