package services

import (
	"testing"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"
)

func TestRunLifecycle(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)

	run, err := runs.CreateRun(party.ID, "Manche 1")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if run.IsStarted || run.IsVisible || run.IsClosed || run.RevealAnswers {
		t.Fatalf("new run should be a clean draft: %+v", run)
	}

	if _, err := runs.AddQuestions(run.ID, []QuestionInput{
		{Text: "La Terre est ronde", Correct: true},
		{Text: "2+2=5", Correct: false, Score: 20},
	}); err != nil {
		t.Fatalf("add questions: %v", err)
	}

	run, err = runs.SetStarted(run.ID, true)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !run.IsStarted {
		t.Fatal("run should be started")
	}

	run, err = runs.SetVisibility(run.ID, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !run.IsVisible {
		t.Fatal("run should be visible")
	}

	run, err = runs.CloseRun(run.ID, true)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !run.IsClosed || !run.RevealAnswers {
		t.Fatalf("closing must set both is_closed and reveal_answers: %+v", run)
	}

	run, err = runs.CloseRun(run.ID, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if run.IsClosed || run.RevealAnswers {
		t.Fatalf("reopening must clear both is_closed and reveal_answers: %+v", run)
	}
	if !run.IsVisible {
		t.Fatal("reopened run should still be visible")
	}
}

func TestSetStartedRequiresQuestions(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Vide")

	_, err := runs.SetStarted(run.ID, true)
	if !IsKind(err, KindStateGuard) {
		t.Fatalf("expected state guard error, got %v", err)
	}
}

func TestSetVisibilityRequiresStart(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Manche")
	if _, err := runs.AddQuestions(run.ID, []QuestionInput{{Text: "Q", Correct: true}}); err != nil {
		t.Fatalf("add questions: %v", err)
	}

	_, err := runs.SetVisibility(run.ID, true)
	if !IsKind(err, KindStateGuard) {
		t.Fatalf("visibility before start must fail with a state guard, got %v", err)
	}
}

func TestAddQuestionsAfterStartRejected(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Manche")
	if _, err := runs.AddQuestions(run.ID, []QuestionInput{{Text: "Q1", Correct: true}}); err != nil {
		t.Fatalf("add questions: %v", err)
	}
	if _, err := runs.SetStarted(run.ID, true); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := runs.AddQuestions(run.ID, []QuestionInput{{Text: "Q2", Correct: false}})
	if !IsKind(err, KindStateGuard) {
		t.Fatalf("expected state guard error, got %v", err)
	}

	var count int64
	db.Model(&models.RunQuestion{}).Where("run_id = ?", run.ID).Count(&count)
	if count != 1 {
		t.Fatalf("rejected batch must not be stored, have %d questions", count)
	}
}

func TestResetOnlyWhileHidden(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run := openRun(t, runs, party.ID, QuestionInput{Text: "Q", Correct: true})

	if _, err := runs.SetStarted(run.ID, false); !IsKind(err, KindStateGuard) {
		t.Fatalf("reset of a visible run must fail, got %v", err)
	}

	// hide it again, then the reset is legal
	if _, err := runs.SetVisibility(run.ID, false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	reset, err := runs.SetStarted(run.ID, false)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.IsStarted {
		t.Fatal("run should be back in draft")
	}
}

func TestCloseRequiresVisible(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Manche")
	if _, err := runs.AddQuestions(run.ID, []QuestionInput{{Text: "Q", Correct: true}}); err != nil {
		t.Fatalf("add questions: %v", err)
	}
	if _, err := runs.SetStarted(run.ID, true); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := runs.CloseRun(run.ID, true); !IsKind(err, KindStateGuard) {
		t.Fatalf("closing a hidden run must fail, got %v", err)
	}
}

func TestDeleteRunMidPlayRefused(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run := openRun(t, runs, party.ID, QuestionInput{Text: "Q", Correct: true})

	if err := runs.DeleteRun(run.ID); !IsKind(err, KindStateGuard) {
		t.Fatalf("deleting a run in progress must fail, got %v", err)
	}

	if _, err := runs.CloseRun(run.ID, true); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := runs.DeleteRun(run.ID); err != nil {
		t.Fatalf("deleting a closed run should succeed: %v", err)
	}

	var count int64
	db.Model(&models.RunQuestion{}).Where("run_id = ?", run.ID).Count(&count)
	if count != 0 {
		t.Fatalf("questions should be deleted with the run, have %d", count)
	}
}

func TestDeleteQuestionOnlyInDraft(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Manche")
	created, err := runs.AddQuestions(run.ID, []QuestionInput{
		{Text: "Q1", Correct: true},
		{Text: "Q2", Correct: false},
	})
	if err != nil {
		t.Fatalf("add questions: %v", err)
	}

	if err := runs.DeleteQuestion(created[0].ID); err != nil {
		t.Fatalf("delete in draft: %v", err)
	}

	if _, err := runs.SetStarted(run.ID, true); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := runs.DeleteQuestion(created[1].ID); !IsKind(err, KindStateGuard) {
		t.Fatalf("delete after start must fail, got %v", err)
	}
}

func TestDefaultQuestionScore(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)

	_, party := createSession(t, catalog, false, 0)
	run, _ := runs.CreateRun(party.ID, "Manche")
	created, err := runs.AddQuestions(run.ID, []QuestionInput{{Text: "Q", Correct: true}})
	if err != nil {
		t.Fatalf("add questions: %v", err)
	}
	if created[0].Score != models.DefaultQuestionScore {
		t.Fatalf("expected default score %d, got %d", models.DefaultQuestionScore, created[0].Score)
	}
}

func TestGetStatistics(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	runs := NewRunService(db)
	answers := NewAnswerService(db)

	session, party := createSession(t, catalog, false, 0)
	alice := createPlayer(t, db, "alice@example.com", 0)
	bob := createPlayer(t, db, "bob@example.com", 0)
	mustJoin(t, catalog, alice, session.ID, nil)
	mustJoin(t, catalog, bob, session.ID, nil)

	run := openRun(t, runs, party.ID,
		QuestionInput{Text: "Q1", Correct: true},
		QuestionInput{Text: "Q2", Correct: false},
	)
	ids := questionIDs(t, db, run.ID)
	if err := answers.SubmitAnswer(alice, ids[0], true); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats, err := runs.GetStatistics(run.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Questions != 2 || stats.Answers != 1 || stats.Players != 2 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
}
