package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved []model.Spot
	err   error
}

func (f *fakeSaver) Save(_ context.Context, spot model.Spot) (model.Spot, error) {
	if f.err != nil {
		return model.Spot{}, f.err
	}
	spot.Version++
	f.mu.Lock()
	f.saved = append(f.saved, spot)
	f.mu.Unlock()
	return spot, nil
}

type fakeUploader struct {
	err error
}

func (f *fakeUploader) UploadImage(_ context.Context, name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/" + name, nil
}

func newTestManager(t *testing.T) (*Manager, *library.Library, *fakeSaver, *fakeUploader) {
	t.Helper()
	lib := library.New()
	saver := &fakeSaver{}
	up := &fakeUploader{}
	return NewManager(lib, saver, up, nil), lib, saver, up
}

func draftSpot(id, name string) model.Spot {
	ts := model.TimestampOf(time.Now())
	return model.Spot{
		PlaceID:     id,
		PlaceName:   name,
		Status:      model.StatusDraft,
		Categories:  []string{"바다"},
		Images:      []model.ImageInfo{},
		LinkedSpots: []model.LinkedSpot{},
		Comments:    []model.Comment{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func TestOpenSpotStepRouting(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	tests := []struct {
		status string
		step   string
	}{
		{model.StatusDraft, StepInitial},
		{model.StatusStub, StepInitial},
		{model.StatusPublished, StepReview},
		{model.StatusRejected, StepReview},
	}
	for _, tc := range tests {
		spot := draftSpot("P_1", "협재해수욕장")
		spot.Status = tc.status
		sess := m.OpenSpot(spot)
		assert.Equal(t, tc.step, sess.Step(), "status %s", tc.status)
	}
}

func TestEditsStayPrivateUntilCommit(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))

	sess, err := m.Open("P_1")
	require.NoError(t, err)
	require.NoError(t, sess.SetName("협재 해변"))
	sess.SetTipFinal("노을이 최고")

	inLib, _ := lib.Get("P_1")
	assert.Equal(t, "협재해수욕장", inLib.PlaceName, "library untouched before commit")

	committed, err := m.Commit(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "협재 해변", committed.PlaceName)

	inLib, _ = lib.Get("P_1")
	assert.Equal(t, "협재 해변", inLib.PlaceName)
	assert.Equal(t, "노을이 최고", inLib.ExpertTipFinal)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok, "session discarded after commit")
}

func TestCommitUploadsPendingImages(t *testing.T) {
	m, lib, saver, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))

	sess, err := m.Open("P_1")
	require.NoError(t, err)
	require.NoError(t, sess.SetImageData(0, []byte{0xFF, 0xD8, 0x01}, "정면 뷰"))
	require.NoError(t, sess.SetImage(1, model.ImageInfo{URL: "https://cdn.example.com/existing.jpg", Caption: "기존"}))

	committed, err := m.Commit(context.Background(), sess.ID)
	require.NoError(t, err)

	require.Len(t, committed.Images, 2)
	assert.Equal(t, "https://cdn.example.com/P_1_0", committed.Images[0].URL)
	assert.Nil(t, committed.Images[0].LocalData)
	assert.Equal(t, "정면 뷰", committed.Images[0].Caption)
	assert.Equal(t, "https://cdn.example.com/existing.jpg", committed.Images[1].URL, "already hosted slot untouched")
	require.Len(t, saver.saved, 1)
}

func TestCommitFailedUploadPreservesSession(t *testing.T) {
	m, lib, saver, up := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	up.err = errors.New("cdn unreachable")

	sess, err := m.Open("P_1")
	require.NoError(t, err)
	require.NoError(t, sess.SetImageData(0, []byte{0x01}, ""))

	_, err = m.Commit(context.Background(), sess.ID)
	require.Error(t, err)
	assert.Empty(t, saver.saved, "nothing persisted on failed commit")

	kept, ok := m.Get(sess.ID)
	require.True(t, ok, "session survives a failed commit")
	working := kept.Spot()
	require.Len(t, working.Images, 1)
	assert.True(t, working.Images[0].PendingUpload(), "binary kept for retry")
}

func TestCommitVersionConflictPreservesSession(t *testing.T) {
	m, lib, saver, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	saver.err = errors.New("spot was modified by another editor")

	sess, err := m.Open("P_1")
	require.NoError(t, err)

	_, err = m.Commit(context.Background(), sess.ID)
	require.Error(t, err)

	_, ok := m.Get(sess.ID)
	assert.True(t, ok)
}

func TestCommitPromotesStubToDraft(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	stub := lib.CreateStub("새별오름", time.Now())

	sess, err := m.Open(stub.PlaceID)
	require.NoError(t, err)
	assert.Equal(t, StepInitial, sess.Step())

	committed, err := m.Commit(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, committed.Status)
}

func TestAbandonDiscardsSession(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))

	sess, err := m.Open("P_1")
	require.NoError(t, err)
	require.NoError(t, sess.SetName("바뀐 이름"))

	require.NoError(t, m.Abandon(sess.ID))

	inLib, _ := lib.Get("P_1")
	assert.Equal(t, "협재해수욕장", inLib.PlaceName)

	_, err = m.Commit(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, m.Abandon(sess.ID), ErrSessionNotFound)
}

func TestAddLinkExistingTarget(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	lib.Upsert(draftSpot("P_2", "금능해수욕장"))

	sess, err := m.Open("P_1")
	require.NoError(t, err)

	link, err := m.AddLink(context.Background(), sess.ID, "함께가기", "금능해수욕장")
	require.NoError(t, err)
	assert.Equal(t, "P_2", link.PlaceID)
	assert.Equal(t, 2, lib.Len(), "no stub created for a known target")
}

func TestAddLinkCreatesAndPersistsStub(t *testing.T) {
	m, lib, saver, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))

	sess, err := m.Open("P_1")
	require.NoError(t, err)

	link, err := m.AddLink(context.Background(), sess.ID, "함께가기", "이름없는식당")
	require.NoError(t, err)
	assert.NotEmpty(t, link.PlaceID)
	assert.Equal(t, "이름없는식당", link.PlaceName)

	stub, ok := lib.Get(link.PlaceID)
	require.True(t, ok)
	assert.Equal(t, model.StatusStub, stub.Status)
	require.Len(t, saver.saved, 1, "stub persisted immediately")
	assert.Equal(t, model.StatusStub, saver.saved[0].Status)
}

func TestAddLinkRejectsUnknownType(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	sess, _ := m.Open("P_1")

	_, err := m.AddLink(context.Background(), sess.ID, "friendly", "금능해수욕장")
	require.Error(t, err)
}

func TestImageAndLinkLimits(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	for i := 0; i < model.MaxLinkedSpots; i++ {
		lib.Upsert(draftSpot("P_t"+string(rune('A'+i)), "타겟"+string(rune('A'+i))))
	}

	sess, err := m.Open("P_1")
	require.NoError(t, err)

	for i := 0; i < model.MaxImages; i++ {
		require.NoError(t, sess.SetImage(i, model.ImageInfo{URL: "u", Caption: "c"}))
	}
	assert.ErrorIs(t, sess.SetImage(model.MaxImages, model.ImageInfo{}), ErrImageLimit)

	for i := 0; i < model.MaxLinkedSpots; i++ {
		_, err := m.AddLink(context.Background(), sess.ID, "함께가기", "타겟"+string(rune('A'+i)))
		require.NoError(t, err)
	}
	_, err = m.AddLink(context.Background(), sess.ID, "함께가기", "협재해수욕장")
	assert.ErrorIs(t, errors.Cause(err), ErrLinkLimit)
}

func TestSetTagsFromText(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	sess, _ := m.Open("P_1")

	sess.SetTagsFromText("바다, 노을 ,  , 스냅사진")
	assert.Equal(t, []string{"바다", "노을", "스냅사진"}, sess.Spot().Tags)
}

func TestFieldValidation(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	sess, _ := m.Open("P_1")

	assert.Error(t, sess.SetStatus("archived"))
	assert.NoError(t, sess.SetStatus(model.StatusPublished))
	assert.Error(t, sess.SetRegion("서울"))
	assert.NoError(t, sess.SetRegion("애월읍"))
	assert.Error(t, sess.SetCategories([]string{"없는카테고리"}))
	assert.Error(t, sess.SetName("  "))
}

func TestAttributeVocabularyEnforced(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	sess, _ := m.Open("P_1")

	err := sess.SetAttributes(model.Attributes{WithKids: "banana"})
	assert.ErrorIs(t, errors.Cause(err), ErrInvalidValue)
	assert.ErrorIs(t, errors.Cause(sess.SetAttributes(model.Attributes{WithPets: "환영"})), ErrInvalidValue)
	assert.ErrorIs(t, errors.Cause(sess.SetAttributes(model.Attributes{ParkingDifficulty: "최악"})), ErrInvalidValue)
	assert.ErrorIs(t, errors.Cause(sess.SetAttributes(model.Attributes{AdmissionFee: "비쌈"})), ErrInvalidValue)
	assert.Nil(t, sess.Spot().Attributes, "rejected values never reach the working copy")

	require.NoError(t, sess.SetAttributes(model.Attributes{
		WithKids:          "추천",
		WithPets:          "불가",
		ParkingDifficulty: "쉬움",
		AdmissionFee:      "무료",
	}))
	require.NotNil(t, sess.Spot().Attributes)
	assert.Equal(t, "추천", sess.Spot().Attributes.WithKids)

	require.NoError(t, sess.SetAttributes(model.Attributes{}), "empty facets mean unset")
}

func TestCommentTypeVocabularyEnforced(t *testing.T) {
	m, lib, _, _ := newTestManager(t)
	lib.Upsert(draftSpot("P_1", "협재해수욕장"))
	sess, _ := m.Open("P_1")

	err := sess.AddComment(model.Comment{Type: "not-a-comment-type", Content: "좋아요"})
	assert.ErrorIs(t, errors.Cause(err), ErrInvalidValue)
	assert.Empty(t, sess.Spot().Comments)

	require.NoError(t, sess.AddComment(model.Comment{Type: "꿀팁", Content: "오전에 가면 한적함"}))
	require.Len(t, sess.Spot().Comments, 1)

	err = sess.UpdateComment(0, model.Comment{Type: "잡담", Content: "x"})
	assert.ErrorIs(t, errors.Cause(err), ErrInvalidValue)
	assert.Equal(t, "꿀팁", sess.Spot().Comments[0].Type)

	require.NoError(t, sess.UpdateComment(0, model.Comment{Type: "총평", Content: "재방문 의사 있음"}))
	assert.Equal(t, "총평", sess.Spot().Comments[0].Type)
}
