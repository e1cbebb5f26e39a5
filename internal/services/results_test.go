package services

import (
	"testing"
)

func TestLeaderboardPendingBeforeReveal(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)
	results := NewResultsService(db)

	session, party := createSession(t, catalog, false, 0)
	alice := createPlayer(t, db, "alice@example.com", 0)
	mustJoin(t, catalog, alice, session.ID, nil)

	run := openRun(t, runs, party.ID, QuestionInput{Text: "Q", Correct: true})

	if _, err := results.GetLeaderboard(alice, run.ID); !IsKind(err, KindStateGuard) {
		t.Fatalf("leaderboard before reveal must be pending, got %v", err)
	}
}

func TestLeaderboardRanksPerRunScore(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)
	answers := NewAnswerService(db)
	results := NewResultsService(db)

	session, party := createSession(t, catalog, false, 0)
	alice := createPlayer(t, db, "alice@example.com", 0)
	bob := createPlayer(t, db, "bob@example.com", 0)
	carol := createPlayer(t, db, "carol@example.com", 0)
	initial := mustJoin(t, catalog, alice, session.ID, nil)
	mustJoin(t, catalog, bob, session.ID, nil)
	mustJoin(t, catalog, carol, session.ID, nil)

	// a previous run gave bob a big cumulative lead
	setScore(t, db, initial.ID, bob, 500)

	run := openRun(t, runs, party.ID,
		QuestionInput{Text: "Q1", Correct: true},
		QuestionInput{Text: "Q2", Correct: false},
	)
	ids := questionIDs(t, db, run.ID)
	if err := answers.SubmitAnswer(alice, ids[0], true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := answers.SubmitAnswer(alice, ids[1], false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := answers.SubmitAnswer(bob, ids[0], false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := runs.CloseRun(run.ID, true); err != nil {
		t.Fatalf("close: %v", err)
	}

	board, err := results.GetLeaderboard(alice, run.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("every member ranks, got %d entries", len(board))
	}

	// per-run score only: alice 20, bob 0 despite his cumulative 500+
	if board[0].UserID != alice || board[0].Score != 20 || board[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	for _, e := range board[1:] {
		if e.Score != 0 {
			t.Fatalf("non-answering members score 0 for the run: %+v", e)
		}
	}
	if !board[0].IsCurrentUser {
		t.Fatal("caller should be flagged in the leaderboard")
	}
}

func TestPartyHistoryRevealGate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)
	answers := NewAnswerService(db)
	results := NewResultsService(db)

	session, party := createSession(t, catalog, false, 0)
	alice := createPlayer(t, db, "alice@example.com", 0)
	mustJoin(t, catalog, alice, session.ID, nil)

	first := openRun(t, runs, party.ID, QuestionInput{Text: "R1 Q1", Correct: true})
	if err := answers.SubmitAnswer(alice, questionIDs(t, db, first.ID)[0], true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := runs.CloseRun(first.ID, true); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openRun(t, runs, party.ID, QuestionInput{Text: "R2 Q1", Correct: true})
	if err := answers.SubmitAnswer(alice, questionIDs(t, db, second.ID)[0], true); err != nil {
		t.Fatalf("submit: %v", err)
	}

	history, err := results.GetPartyHistory(alice, party.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 runs in history, got %d", len(history))
	}

	for _, entry := range history {
		switch entry.RunID {
		case first.ID:
			if entry.Pending || entry.MyScore != 10 {
				t.Fatalf("revealed run should carry its score: %+v", entry)
			}
		case second.ID:
			if !entry.Pending || entry.MyScore != 0 {
				t.Fatalf("open run must be pending with zero score: %+v", entry)
			}
			if entry.MyAnswers != 1 {
				t.Fatalf("participation count is not secret: %+v", entry)
			}
		default:
			t.Fatalf("unexpected run in history: %+v", entry)
		}
	}
}

func TestMyResultsIdempotentReRead(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)
	answers := NewAnswerService(db)
	results := NewResultsService(db)

	session, party := createSession(t, catalog, false, 0)
	alice := createPlayer(t, db, "alice@example.com", 0)
	mustJoin(t, catalog, alice, session.ID, nil)

	run := openRun(t, runs, party.ID, QuestionInput{Text: "Q", Correct: true})
	if err := answers.SubmitAnswer(alice, questionIDs(t, db, run.ID)[0], true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := runs.CloseRun(run.ID, true); err != nil {
		t.Fatalf("close: %v", err)
	}

	first, err := results.GetMyResults(alice, party.ID)
	if err != nil {
		t.Fatalf("my results: %v", err)
	}
	second, err := results.GetMyResults(alice, party.ID)
	if err != nil {
		t.Fatalf("my results re-read: %v", err)
	}
	if first.TotalScore != second.TotalScore || len(first.Runs) != len(second.Runs) {
		t.Fatalf("revealed results must be stable: %+v vs %+v", first, second)
	}
}
