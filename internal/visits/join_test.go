package visits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointment-visit-audit/internal/model"
	"appointment-visit-audit/internal/normalize"
)

func TestJoinMatchesIgnoringCaseAndSpacing(t *testing.T) {
	appts := &normalize.AppointmentTable{Rows: []model.Appointment{
		{Type: strPtr("Brow  Touch Up"), FirstName: "Ann"},
	}}
	refs := &normalize.ReferenceTable{Rows: []model.Reference{
		{Type: "brow touch up", IncludeOrNotInclude: strPtr("Yes"), RevisedType: strPtr("Touch Up")},
	}}

	joined := Join(appts, refs)
	require.Equal(t, StateReady, joined.State)
	require.Len(t, joined.Records, 1)
	assert.Equal(t, 0, joined.Unmatched)
	assert.Equal(t, "Yes", *joined.Records[0].IncludeOrNotInclude)
	assert.Equal(t, "Touch Up", *joined.Records[0].RevisedType)
}

func TestJoinKeepsUnmatchedRows(t *testing.T) {
	appts := &normalize.AppointmentTable{Rows: []model.Appointment{
		{Type: strPtr("Mystery Service"), FirstName: "Bea", Phone: "+1 (555) 000-0001"},
		{Type: nil, FirstName: "Cal"},
	}}
	refs := &normalize.ReferenceTable{Rows: []model.Reference{
		{Type: "Consult", IncludeOrNotInclude: strPtr("Yes")},
	}}

	joined := Join(appts, refs)
	require.Len(t, joined.Records, 2)
	assert.Equal(t, 2, joined.Unmatched)

	first := joined.Records[0]
	assert.Equal(t, "Bea", first.FirstName)
	assert.Equal(t, "+1 (555) 000-0001", first.Phone)
	assert.Equal(t, "Mystery Service", *first.Type)
	assert.Nil(t, first.IncludeOrNotInclude)
	assert.Nil(t, first.RevisedType)
	assert.Nil(t, first.InitialTouchUp)
	assert.Nil(t, first.FreeTouchUp)
}

func TestJoinMissingInputPropagates(t *testing.T) {
	appts := &normalize.AppointmentTable{Rows: []model.Appointment{{FirstName: "Ann"}}}
	refs := &normalize.ReferenceTable{}

	assert.Equal(t, StateMissing, Join(nil, refs).State)
	assert.Equal(t, StateMissing, Join(appts, nil).State)
	assert.Empty(t, Join(nil, nil).Records)
}

func TestJoinEmptyUploadIsNotMissing(t *testing.T) {
	joined := Join(&normalize.AppointmentTable{}, &normalize.ReferenceTable{})
	assert.Equal(t, StateEmpty, joined.State)
}
