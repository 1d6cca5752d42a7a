package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/mendikot/internal/game"
)

// DealerStats tracks results for deals with a given dealer seat.
type DealerStats struct {
	Deals int
	Wins  [2]int
}

// Statistics aggregates deal results across matches. Margins are always
// Team A's Tens minus Team B's Tens, so a positive mean favours Team A.
type Statistics struct {
	Deals   int
	Wins    [2]int
	Draws   int
	Aborted int

	SumMargin  float64
	SumMargin2 float64   // Sum of squares for variance calculation
	Values     []float64 // Store all margins for median/percentile calculation

	Reasons     map[game.OutcomeReason]int
	Mendikots   [2]int
	Whitewashes [2]int
	Tens        [2]int // Tens captured in scored deals
	Tricks      [2]int // tricks taken in scored deals

	DealerResults [game.NumSeats]DealerStats

	Matches     int
	MatchWins   [2]int
	MatchesTied int
}

// Add incorporates one completed deal.
func (s *Statistics) Add(r game.DealResult) {
	s.Deals++
	if s.Reasons == nil {
		s.Reasons = make(map[game.OutcomeReason]int)
	}
	s.Reasons[r.Reason]++

	if r.Err != nil {
		s.Aborted++
		return
	}

	margin := float64(r.Tallies[game.TeamA].Tens - r.Tallies[game.TeamB].Tens)
	s.SumMargin += margin
	s.SumMargin2 += margin * margin
	s.Values = append(s.Values, margin)

	for t := range 2 {
		s.Tens[t] += r.Tallies[t].Tens
		s.Tricks[t] += r.Tallies[t].Tricks
	}

	ds := &s.DealerResults[r.PreviousDealer]
	ds.Deals++

	if r.Winner == nil {
		s.Draws++
		return
	}
	w := *r.Winner
	s.Wins[w]++
	ds.Wins[w]++
	if r.Reason == game.ReasonMendikot {
		s.Mendikots[w]++
	}
	if r.Whitewash {
		s.Whitewashes[w]++
	}
}

// AddMatch records a match's deals-won score.
func (s *Statistics) AddMatch(score [2]int) {
	s.Matches++
	switch {
	case score[game.TeamA] > score[game.TeamB]:
		s.MatchWins[game.TeamA]++
	case score[game.TeamB] > score[game.TeamA]:
		s.MatchWins[game.TeamB]++
	default:
		s.MatchesTied++
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Deals += other.Deals
	s.Draws += other.Draws
	s.Aborted += other.Aborted
	s.SumMargin += other.SumMargin
	s.SumMargin2 += other.SumMargin2
	s.Values = append(s.Values, other.Values...)
	if len(other.Reasons) > 0 && s.Reasons == nil {
		s.Reasons = make(map[game.OutcomeReason]int)
	}
	for r, n := range other.Reasons {
		s.Reasons[r] += n
	}
	for t := range 2 {
		s.Wins[t] += other.Wins[t]
		s.Mendikots[t] += other.Mendikots[t]
		s.Whitewashes[t] += other.Whitewashes[t]
		s.Tens[t] += other.Tens[t]
		s.Tricks[t] += other.Tricks[t]
		s.MatchWins[t] += other.MatchWins[t]
	}
	for i := range s.DealerResults {
		s.DealerResults[i].Deals += other.DealerResults[i].Deals
		for t := range 2 {
			s.DealerResults[i].Wins[t] += other.DealerResults[i].Wins[t]
		}
	}
	s.Matches += other.Matches
	s.MatchesTied += other.MatchesTied
}

// Scored returns the number of deals that were played out.
func (s *Statistics) Scored() int {
	return s.Deals - s.Aborted
}

// WinRate returns the fraction of scored deals won by team.
func (s *Statistics) WinRate(team game.TeamID) float64 {
	n := s.Scored()
	if n == 0 {
		return 0
	}
	return float64(s.Wins[team]) / float64(n)
}

// WinRateCI95 returns the normal-approximation 95% confidence interval for
// team's win rate, clamped to [0, 1].
func (s *Statistics) WinRateCI95(team game.TeamID) (float64, float64) {
	n := s.Scored()
	if n == 0 {
		return 0, 0
	}
	p := s.WinRate(team)
	margin := 1.96 * math.Sqrt(p*(1-p)/float64(n))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// Mean returns the mean Tens margin per scored deal.
func (s *Statistics) Mean() float64 {
	n := len(s.Values)
	if n == 0 {
		return 0
	}
	return s.SumMargin / float64(n)
}

// Variance returns the sample variance of the Tens margin.
func (s *Statistics) Variance() float64 {
	n := len(s.Values)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumMargin2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of the Tens margin.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean margin.
func (s *Statistics) StdError() float64 {
	n := len(s.Values)
	if n == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(n))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean margin.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median Tens margin.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the margin at the given percentile (0.0 to 1.0),
// interpolating between neighbours.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// DealerWinRate returns team's win rate over scored deals dealt by seat.
func (s *Statistics) DealerWinRate(seat game.Seat, team game.TeamID) float64 {
	if !seat.Valid() {
		return 0
	}
	ds := s.DealerResults[seat]
	if ds.Deals == 0 {
		return 0
	}
	return float64(ds.Wins[team]) / float64(ds.Deals)
}

// Validate checks that the aggregated counts agree with each other.
func (s *Statistics) Validate() error {
	scored := s.Scored()
	if scored < 0 {
		return fmt.Errorf("aborted deals (%d) exceed total deals (%d)", s.Aborted, s.Deals)
	}
	if got := s.Wins[game.TeamA] + s.Wins[game.TeamB] + s.Draws; got != scored {
		return fmt.Errorf("wins plus draws (%d) do not match scored deals (%d)", got, scored)
	}
	if len(s.Values) != scored {
		return fmt.Errorf("values array length (%d) does not match scored deals (%d)", len(s.Values), scored)
	}
	if got, want := s.Tens[0]+s.Tens[1], 4*scored; got != want {
		return fmt.Errorf("tens captured (%d) do not match %d scored deals", got, scored)
	}
	if got, want := s.Tricks[0]+s.Tricks[1], game.TricksPerDeal*scored; got != want {
		return fmt.Errorf("tricks taken (%d) do not match %d scored deals", got, scored)
	}
	total := 0
	for _, n := range s.Reasons {
		total += n
	}
	if total != s.Deals {
		return fmt.Errorf("reason histogram total (%d) does not match deals (%d)", total, s.Deals)
	}
	dealt := 0
	for _, ds := range s.DealerResults {
		dealt += ds.Deals
	}
	if dealt != scored {
		return fmt.Errorf("dealer deals total (%d) does not match scored deals (%d)", dealt, scored)
	}
	if got := s.MatchWins[0] + s.MatchWins[1] + s.MatchesTied; got != s.Matches {
		return fmt.Errorf("match outcomes (%d) do not match matches (%d)", got, s.Matches)
	}
	return nil
}
