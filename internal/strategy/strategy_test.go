package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekprior/doubles/internal/doubles"
)

func player(id, tier string, g doubles.Gender) doubles.Player {
	return doubles.Player{ID: id, Name: id, SkillLevel: tier, Gender: g}
}

func testEnv(seed int64) Env {
	return Env{Scorer: doubles.NewScorer(), RNG: doubles.NewRand(seed), Jitter: 0}
}

func testOptions(courts, k int, seed int64) Options {
	return Options{
		Courts:   courts,
		MinGames: k,
		Scorer:   doubles.NewScorer(),
		RNG:      doubles.NewRand(seed),
		Jitter:   DefaultJitter,
	}
}

// eightPlayers is four A1s and four E2s.
func eightPlayers() []doubles.Player {
	var ps []doubles.Player
	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		ps = append(ps, player(id, "A1", doubles.Unspecified))
	}
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		ps = append(ps, player(id, "E2", doubles.Unspecified))
	}
	return ps
}

func TestTargetMatches(t *testing.T) {
	tests := []struct {
		players, k, want int
	}{
		{8, 1, 2},
		{5, 1, 2},
		{4, 3, 3},
		{9, 2, 5},
		{3, 1, 1},
		{12, 1, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TargetMatches(tt.players, tt.k), "n=%d k=%d", tt.players, tt.k)
	}
}

func TestGet(t *testing.T) {
	for _, kind := range Kinds() {
		s, err := Get(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, s.Name())
	}

	s, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, SkillBalancedKind, s.Name())

	_, err = Get("round_robin")
	assert.Error(t, err)
}

func TestBuildTeams(t *testing.T) {
	pool := []doubles.Player{
		player("a", "A1", doubles.Unspecified),
		player("b", "A2", doubles.Unspecified),
		player("c", "C1", doubles.Unspecified),
		player("d", "E2", doubles.Unspecified),
	}
	cands := BuildTeams(pool, testEnv(1))
	require.Len(t, cands, 6)

	for i := 1; i < len(cands); i++ {
		assert.GreaterOrEqual(t, cands[i-1].Fairness, cands[i].Fairness)
	}
	// A1+A2: 19 - 2*1
	assert.Equal(t, 17.0, cands[0].Fairness)
	assert.Equal(t, 19, cands[0].Score)
}

func TestBuildTeamsJitterStaysInRange(t *testing.T) {
	env := testEnv(3)
	env.Jitter = DefaultJitter
	cands := BuildTeams(eightPlayers(), env)
	for _, c := range cands {
		assert.InDelta(t, c.Fairness, c.Rank, DefaultJitter)
	}
}

func TestSelectMatchFallback(t *testing.T) {
	// Every split of three A1s and an E2 is 20 vs 11, so nothing passes the gate.
	pool := []doubles.Player{
		player("a", "A1", doubles.Unspecified),
		player("b", "A1", doubles.Unspecified),
		player("c", "A1", doubles.Unspecified),
		player("d", "E2", doubles.Unspecified),
	}
	sc := doubles.NewScorer()
	sel, ok := selectMatch(BuildTeams(pool, testEnv(1)), sc)
	require.True(t, ok)
	assert.False(t, sel.gated)
	assert.True(t, sel.match.Valid())
	assert.Equal(t, 9, sc.Diff(sel.match))
}

func TestSelectMatchNeedsTwoTeams(t *testing.T) {
	pool := []doubles.Player{
		player("a", "A1", doubles.Unspecified),
		player("b", "A1", doubles.Unspecified),
	}
	_, ok := selectMatch(BuildTeams(pool, testEnv(1)), doubles.NewScorer())
	assert.False(t, ok)
}

func TestConstructSkillBalanced(t *testing.T) {
	players := eightPlayers()
	counter := doubles.NewCounter(players)
	sc := doubles.NewScorer()

	matches, err := Construct(&SkillBalanced{}, players, counter, testOptions(2, 1, 5))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	for _, m := range matches {
		assert.True(t, m.Valid())
		assert.LessOrEqual(t, sc.Diff(m), 1)
	}
	for _, p := range players {
		assert.Equal(t, 1, counter.Count(p.ID), p.ID)
	}
}

func TestConstructDistinctPlayers(t *testing.T) {
	var players []doubles.Player
	tiers := []string{"A1", "A2", "B1", "B2", "C1", "C2", "D1", "D2", "E1", "E2", "C1"}
	for i, tier := range tiers {
		players = append(players, player(string(rune('a'+i)), tier, doubles.Unspecified))
	}

	for _, kind := range []Kind{SkillBalancedKind, RandomizedBalancedKind} {
		for seed := int64(1); seed <= 5; seed++ {
			s, err := Get(kind)
			require.NoError(t, err)
			counter := doubles.NewCounter(players)
			matches, err := Construct(s, players, counter, testOptions(2, 2, seed))
			require.NoError(t, err)

			assert.LessOrEqual(t, len(matches), TargetMatches(len(players), 2), "%s seed %d", kind, seed)
			for _, m := range matches {
				assert.True(t, m.Valid(), "%s seed %d: %s", kind, seed, m)
			}
		}
	}
}

func TestRandomizedKeepsSkillGroupsApart(t *testing.T) {
	pool := []doubles.Player{
		player("a1", "A1", doubles.Unspecified),
		player("a2", "A2", doubles.Unspecified),
		player("e1", "E1", doubles.Unspecified),
		player("e2", "E2", doubles.Unspecified),
	}
	s := &RandomizedBalanced{}

	for seed := int64(1); seed <= 10; seed++ {
		cands := s.Candidates(pool, testEnv(seed))
		require.Len(t, cands, 6)
		// same-group pairs trail the list
		assert.Equal(t, 1, cands[4].Tier)
		assert.Equal(t, 1, cands[5].Tier)

		sel, ok := selectMatch(cands, doubles.NewScorer())
		require.True(t, ok)
		require.True(t, sel.gated)
		for _, team := range []doubles.Team{sel.match.Team1, sel.match.Team2} {
			assert.NotEqual(t, team.Player1.SkillGroup(), team.Player2.SkillGroup(), "seed %d: %s", seed, team)
		}
	}
}

func TestMixedGenderPrefersMixedTeams(t *testing.T) {
	// The fairest mixed team (the two A1s) has no mixed opponent within the
	// gate, so the strategy has to look further down the list.
	pool := []doubles.Player{
		player("m1", "A1", doubles.Male),
		player("m2", "E2", doubles.Male),
		player("f1", "A1", doubles.Female),
		player("f2", "E2", doubles.Female),
	}
	s := &MixedGender{}

	for seed := int64(1); seed <= 5; seed++ {
		sel, ok := selectMatch(s.Candidates(pool, testEnv(seed)), doubles.NewScorer())
		require.True(t, ok)
		require.True(t, sel.gated)
		for _, team := range []doubles.Team{sel.match.Team1, sel.match.Team2} {
			assert.Equal(t, tierMixed, genderTier(team), "seed %d: %s", seed, team)
		}
	}
}

func TestMixedGenderKeepsMixedTeamOnTie(t *testing.T) {
	// One woman allows one mixed team; the other man's best partner is then
	// unspecified.
	pool := []doubles.Player{
		player("m1", "C1", doubles.Male),
		player("m2", "C1", doubles.Male),
		player("f1", "C1", doubles.Female),
		player("u1", "C1", doubles.Unspecified),
		player("u2", "C1", doubles.Unspecified),
	}
	s := &MixedGender{}

	for seed := int64(1); seed <= 5; seed++ {
		sel, ok := selectMatch(s.Candidates(pool, testEnv(seed)), doubles.NewScorer())
		require.True(t, ok)
		require.True(t, sel.gated)
		tiers := []int{genderTier(sel.match.Team1), genderTier(sel.match.Team2)}
		assert.ElementsMatch(t, []int{tierMixed, tierUnspecifiedMale}, tiers, "seed %d: %s", seed, sel.match)
	}
}

func TestMixedGenderTiers(t *testing.T) {
	m := player("m", "A1", doubles.Male)
	m2 := player("m2", "A1", doubles.Male)
	f := player("f", "A1", doubles.Female)
	f2 := player("f2", "A1", doubles.Female)
	u := player("u", "A1", doubles.Unspecified)
	u2 := player("u2", "A1", doubles.Unspecified)

	assert.Equal(t, tierMixed, genderTier(doubles.NewTeam(m, f)))
	assert.Equal(t, tierMixed, genderTier(doubles.NewTeam(f, m)))
	assert.Equal(t, tierUnspecifiedMale, genderTier(doubles.NewTeam(u, m)))
	assert.Equal(t, tierUnspecifiedFemale, genderTier(doubles.NewTeam(f, u)))
	assert.Equal(t, tierSameGender, genderTier(doubles.NewTeam(m, m2)))
	assert.Equal(t, tierSameGender, genderTier(doubles.NewTeam(f, f2)))
	assert.Equal(t, tierUnspecifiedPair, genderTier(doubles.NewTeam(u, u2)))
}

func TestMixedGenderCheck(t *testing.T) {
	players := []doubles.Player{
		player("m1", "A1", doubles.Male),
		player("m2", "B1", doubles.Male),
		player("m3", "C1", doubles.Male),
		player("f1", "A1", doubles.Female),
	}
	counter := doubles.NewCounter(players)
	_, err := Construct(&MixedGender{}, players, counter, testOptions(1, 1, 1))
	assert.True(t, errors.Is(err, doubles.ErrInsufficientGenderMix))

	players[2].Gender = doubles.Female
	assert.NoError(t, (&MixedGender{}).Check(players))
}

func TestRoundPool(t *testing.T) {
	players := eightPlayers()
	rng := doubles.NewRand(1)

	t.Run("needy players only", func(t *testing.T) {
		counter := doubles.NewCounter(players)
		pool := roundPool(players, counter, map[string]bool{}, 1, rng)
		assert.Len(t, pool, 8)
	})

	t.Run("tops up with lowest counts", func(t *testing.T) {
		counter := doubles.NewCounter(players)
		for _, p := range players[:6] {
			counter.Inc(p.ID)
		}
		counter.Inc("a1")
		pool := roundPool(players, counter, map[string]bool{}, 1, rng)
		require.Len(t, pool, 4)
		ids := make([]string, 0, 4)
		for _, p := range pool {
			ids = append(ids, p.ID)
		}
		assert.Contains(t, ids, "e3")
		assert.Contains(t, ids, "e4")
		assert.NotContains(t, ids, "a1")
	})

	t.Run("skips used players", func(t *testing.T) {
		counter := doubles.NewCounter(players)
		used := map[string]bool{"a1": true, "a2": true, "a3": true, "a4": true, "e1": true}
		pool := roundPool(players, counter, used, 1, rng)
		assert.Len(t, pool, 3)
	})

	t.Run("nobody needy", func(t *testing.T) {
		counter := doubles.NewCounter(players)
		for _, p := range players {
			counter.Inc(p.ID)
		}
		assert.Nil(t, roundPool(players, counter, map[string]bool{}, 1, rng))
	})
}
