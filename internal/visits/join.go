package visits

import (
	"appointment-visit-audit/internal/model"
	"appointment-visit-audit/internal/normalize"
)

// Joined is the appointment table left-joined to the reference table.
type Joined struct {
	State     State
	Records   []model.Record
	Unmatched int
}

// Join left-joins appointments to references on type. Both sides are
// compared by normalize.JoinKey. Unmatched appointments keep every field
// and get nil reference fields. If either upload is absent, so is the result.
func Join(appts *normalize.AppointmentTable, refs *normalize.ReferenceTable) Joined {
	if appts == nil || refs == nil {
		return Joined{State: StateMissing}
	}

	byType := make(map[string]model.Reference, len(refs.Rows))
	for _, ref := range refs.Rows {
		key := normalize.JoinKey(ref.Type)
		if _, exists := byType[key]; !exists {
			byType[key] = ref
		}
	}

	joined := Joined{Records: make([]model.Record, 0, len(appts.Rows))}
	for _, appt := range appts.Rows {
		record := model.Record{Appointment: appt}
		ref, ok := lookupReference(byType, appt.Type)
		if ok {
			record.IncludeOrNotInclude = ref.IncludeOrNotInclude
			record.RevisedType = ref.RevisedType
			record.InitialTouchUp = ref.InitialTouchUp
			record.FreeTouchUp = ref.FreeTouchUp
		} else {
			joined.Unmatched++
		}
		joined.Records = append(joined.Records, record)
	}
	joined.State = stateOf(len(joined.Records))
	return joined
}

func lookupReference(byType map[string]model.Reference, typ *string) (model.Reference, bool) {
	if typ == nil {
		return model.Reference{}, false
	}
	ref, ok := byType[normalize.JoinKey(*typ)]
	return ref, ok
}
