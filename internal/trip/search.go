package trip

import "github.com/alex-user-go/tripplan/internal/forecast"

// frame is the backtracking state for one trip day: which candidate to
// try next, and the run length to restore when this day's placement is
// undone.
type frame struct {
	next     int
	savedRun int
}

// Search assigns one location to every day of the request, depth-first
// over day indexes with candidates tried in forecasts order. The first
// complete assignment under that fixed order is returned, so results are
// deterministic.
//
// Placement rules at day d for location L:
//   - L's forecast condition for day d must be in the day's accepted set
//     (a forecast shorter than d+1 days is a plain mismatch);
//   - L's current run length must be below the cap, when one is set;
//   - L must either have never been used (run length 0) or be the
//     occupant of day d-1.
//
// The last rule gives each location at most one contiguous run per trip:
// run lengths are only ever reset by backtracking undo, so a location
// whose run was closed by a different location stays inadmissible for
// every later day. That single-run contract is intentional.
//
// The walk uses an explicit frame per day instead of recursion, so trip
// length never pressures the goroutine stack. Worst case is
// len(forecasts)^days; the placement rules prune hard in practice.
func Search(forecasts []forecast.Forecast, req Request) (Plan, error) {
	days := req.Days()
	if days == 0 {
		return Plan{}, nil
	}

	frames := make([]frame, days)
	assignment := make(Plan, 0, days)
	runs := make(map[int]int, len(forecasts))

	d := 0
	for {
		f := &frames[d]

		placed := false
		for f.next < len(forecasts) {
			candidate := forecasts[f.next]
			f.next++

			if !admissible(candidate, d, req, runs, assignment) {
				continue
			}

			f.savedRun = runs[candidate.LocationID]
			runs[candidate.LocationID] = f.savedRun + 1
			assignment = append(assignment, Stay{LocationID: candidate.LocationID, Day: d + 1})
			placed = true
			break
		}

		if placed {
			if len(assignment) == days {
				return assignment, nil
			}
			d++
			frames[d] = frame{}
			continue
		}

		// Every candidate for day d failed; undo day d-1 and resume its
		// candidate scan.
		if d == 0 {
			return nil, &Error{Kind: KindNoTripFound}
		}
		d--
		last := assignment[len(assignment)-1]
		assignment = assignment[:len(assignment)-1]
		runs[last.LocationID] = frames[d].savedRun
	}
}

func admissible(candidate forecast.Forecast, day int, req Request, runs map[int]int, assignment Plan) bool {
	if day >= len(candidate.Conditions) {
		return false
	}
	if !req.Sequence[day].Contains(candidate.Conditions[day]) {
		return false
	}

	run := runs[candidate.LocationID]
	if req.MaxRun > 0 && run >= req.MaxRun {
		return false
	}

	continuing := len(assignment) > 0 && assignment[len(assignment)-1].LocationID == candidate.LocationID
	return run == 0 || continuing
}
