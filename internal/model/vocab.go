package model

// Fixed vocabularies for the Jeju content platform. Values stay in Korean:
// they are data, not UI copy.

var Categories = []string{
	"오름", "바다", "숲길", "올레길", "관광지",
	"포토존", "식당", "카페", "체험", "꽃", "역사문화",
}

var Regions = []string{
	"제주시 동(洞) 지역",
	"애월읍", "한림읍", "한경면", "대정읍",
	"조천읍", "구좌읍", "성산읍", "우도면",
	"서귀포시 동(洞) 지역",
	"안덕면", "남원읍", "표선면",
}

var (
	WithKidsOptions          = []string{"추천", "가능", "비추천"}
	WithPetsOptions          = []string{"가능", "일부가능", "불가"}
	ParkingDifficultyOptions = []string{"쉬움", "보통", "어려움", "불가"}
	AdmissionFeeOptions      = []string{"무료", "유료", "정보없음"}
	LinkTypeOptions          = []string{"함께가기", "대체장소", "유사분위기"}
	CommentTypeOptions       = []string{"총평", "특징", "배경", "경치/분위기", "메뉴", "꿀팁", "주의사항", "전문가평가"}
)

// MaxImages and MaxLinkedSpots bound the dynamic lists on a spot.
const (
	MaxImages      = 3
	MaxLinkedSpots = 5
)

// DefaultAttributes is the fallback facet table overlaid by AI output during
// draft synthesis.
func DefaultAttributes() Attributes {
	return Attributes{
		TargetAudience:     []string{},
		RecommendedSeasons: []string{},
		WithKids:           "가능",
		WithPets:           "불가",
		ParkingDifficulty:  "보통",
		AdmissionFee:       "정보없음",
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IsCategory(v string) bool { return contains(Categories, v) }

func IsRegion(v string) bool { return contains(Regions, v) }

func IsLinkType(v string) bool { return contains(LinkTypeOptions, v) }

func IsWithKidsOption(v string) bool { return contains(WithKidsOptions, v) }

func IsWithPetsOption(v string) bool { return contains(WithPetsOptions, v) }

func IsParkingDifficulty(v string) bool { return contains(ParkingDifficultyOptions, v) }

func IsAdmissionFee(v string) bool { return contains(AdmissionFeeOptions, v) }

func IsCommentType(v string) bool { return contains(CommentTypeOptions, v) }

func IsSpotStatus(v string) bool {
	return v == StatusDraft || v == StatusPublished || v == StatusRejected || v == StatusStub
}
