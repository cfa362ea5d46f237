package visits

import "appointment-visit-audit/internal/model"

// Status counts joined records by inclusion flag for the records status
// report. Needs review covers null flags and any value other than yes/no.
type Status struct {
	State       State `json:"state"`
	Kept        int   `json:"kept"`
	Dropped     int   `json:"dropped"`
	NeedsReview int   `json:"needs_review"`
}

func Tally(j Joined) Status {
	if j.State == StateMissing {
		return Status{State: StateMissing}
	}
	status := Status{State: j.State}
	for _, record := range j.Records {
		switch model.ClassifyInclusion(record.IncludeOrNotInclude) {
		case model.InclusionYes:
			status.Kept++
		case model.InclusionNo:
			status.Dropped++
		default:
			status.NeedsReview++
		}
	}
	return status
}

// Buckets splits records three ways under a selector. Kept matches the
// selector exactly. Of the rest, rows with an unknown flag go to Unknown and
// rows with an explicit yes/no go to Dropped.
type Buckets struct {
	Kept    []model.Record
	Dropped []model.Record
	Unknown []model.Record
}

func Partition(records []model.Record, sel model.Selector) Buckets {
	var buckets Buckets
	for _, record := range records {
		switch {
		case sel.Matches(record.IncludeOrNotInclude):
			buckets.Kept = append(buckets.Kept, record)
		case model.ClassifyInclusion(record.IncludeOrNotInclude) == model.InclusionUnknown:
			buckets.Unknown = append(buckets.Unknown, record)
		default:
			buckets.Dropped = append(buckets.Dropped, record)
		}
	}
	return buckets
}

// Filtered holds the records retained for sequencing.
type Filtered struct {
	State   State
	Records []model.Record
}

// Filter keeps the records whose inclusion flag matches sel.
func Filter(j Joined, sel model.Selector) Filtered {
	if j.State == StateMissing {
		return Filtered{State: StateMissing}
	}
	kept := Partition(j.Records, sel).Kept
	return Filtered{State: stateOf(len(kept)), Records: kept}
}
