package pipeline

import "github.com/umn-mobility/daynamica-go/internal/models"

// DecodeForPresentation returns a copy of the fragments with types and
// subtypes recoded for reporting: the device-off sentinels collapse into
// DEVICE OFF, catch-all subtypes become OTHER ACTIVITIES / OTHER TRIPS, and
// the legacy WORK label becomes WORKPLACE. The input is not modified.
func DecodeForPresentation(frags []models.Fragment) []models.Fragment {
	out := make([]models.Fragment, len(frags))
	copy(out, frags)
	for i := range out {
		f := &out[i]

		switch f.Type {
		case models.TypeOff, models.TypeInacc, models.TypeCollectionStart:
			f.Type = models.TypeDeviceOff
		}

		switch f.Subtype {
		case models.TypeActivity:
			f.Subtype = models.SubtypeOtherActivity
		case models.TypeTrip:
			f.Subtype = models.SubtypeOtherTrip
		case models.SubtypeWork:
			f.Subtype = models.SubtypeWorkplace
		case models.SubtypeOther:
			if f.Type == models.TypeActivity {
				f.Subtype = models.SubtypeOtherActivity
			} else if f.Type == models.TypeTrip {
				f.Subtype = models.SubtypeOtherTrip
			}
		}
	}
	return out
}
