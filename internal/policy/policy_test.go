package policy

import (
	"testing"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	p, err := Parse("", "")
	require.NoError(t, err)
	for _, ph := range Phases {
		require.Equal(t, Prompt, p.Decision(ph))
	}
}

func TestParse_AllowAndDeny(t *testing.T) {
	p, err := Parse("patch, pr", "script")
	require.NoError(t, err)
	require.Equal(t, AlwaysAllow, p.Decision(PhasePatch))
	require.Equal(t, AlwaysAllow, p.Decision(PhasePR))
	require.Equal(t, Prompt, p.Decision(PhasePackage))
	require.Equal(t, AlwaysDeny, p.Decision(PhaseScript))
}

func TestParse_IntersectionRejected(t *testing.T) {
	_, err := Parse("patch,pr", "pr,package")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	require.Contains(t, err.Error(), "pr")
}

func TestParse_WildcardIntersection(t *testing.T) {
	_, err := Parse("all", "script")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestParse_UnknownToken(t *testing.T) {
	_, err := Parse("patches", "")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	require.Contains(t, err.Error(), "--allow-errors: patches")

	_, err = Parse("", "pr,compile")
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	require.Contains(t, err.Error(), "--no-allow-errors: compile")
}

func TestParse_WildcardEqualsExplicitList(t *testing.T) {
	all, err := Parse("all", "")
	require.NoError(t, err)
	explicit, err := Parse("patch,pr,package,script", "")
	require.NoError(t, err)
	for _, ph := range Phases {
		require.Equal(t, explicit.Decision(ph), all.Decision(ph), ph)
		require.Equal(t, AlwaysAllow, all.Decision(ph))
	}

	denyAll, err := Parse("", "all")
	require.NoError(t, err)
	for _, ph := range Phases {
		require.Equal(t, AlwaysDeny, denyAll.Decision(ph))
	}
}
