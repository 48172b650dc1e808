package taxonomy

import (
	"testing"

	"github.com/Anitej05/Civic-Connect/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("In Progress")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("Closed")
	require.ErrorIs(t, err, errors.ErrInvalidTaxonomy)

	// case matters: values are a closed set, not a vocabulary
	_, err = ParseStatus("submitted")
	require.ErrorIs(t, err, errors.ErrInvalidTaxonomy)
}

func TestCanTransition_ForwardPath(t *testing.T) {
	require.NoError(t, CanTransition(StatusSubmitted, StatusInProgress))
	require.NoError(t, CanTransition(StatusInProgress, StatusResolved))
}

func TestCanTransition_SameStatusIsNoOp(t *testing.T) {
	for _, s := range Statuses {
		require.NoError(t, CanTransition(s, s))
	}
}

func TestCanTransition_BackwardRejected(t *testing.T) {
	require.ErrorIs(t, CanTransition(StatusResolved, StatusSubmitted), errors.ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusResolved, StatusInProgress), errors.ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusInProgress, StatusSubmitted), errors.ErrInvalidTransition)
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	require.ErrorIs(t, CanTransition(Status("Pending"), StatusResolved), errors.ErrInvalidTaxonomy)
	require.ErrorIs(t, CanTransition(StatusSubmitted, Status("Done")), errors.ErrInvalidTaxonomy)
}

func TestTransitionSources(t *testing.T) {
	require.ElementsMatch(t, []Status{StatusSubmitted}, TransitionSources(StatusSubmitted))
	require.ElementsMatch(t, []Status{StatusSubmitted, StatusInProgress}, TransitionSources(StatusInProgress))
	require.ElementsMatch(t, []Status{StatusSubmitted, StatusInProgress, StatusResolved}, TransitionSources(StatusResolved))
	require.Nil(t, TransitionSources(Status("Done")))
}

func TestMembership(t *testing.T) {
	require.True(t, ValidCategory(CategoryWaterLeakage))
	require.False(t, ValidCategory(Category("Graffiti")))
	require.True(t, ValidUrgency(UrgencyHigh))
	require.False(t, ValidUrgency(Urgency("Critical")))
	require.True(t, ValidDepartment(DepartmentWaterBoard))
	require.False(t, ValidDepartment(Department("Roads")))
}
