package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/mapscenes-backend-go/internal/models"
)

func sampleScene() models.Scene {
	return models.Scene{
		ID:                  "s1",
		Name:                "天安门广场",
		Description:         "中国北京天安门广场",
		DetailedDescription: "世界上最大的城市广场之一",
		Latitude:            39.9042,
		Longitude:           116.4074,
		Type:                models.SceneTypeHistorical,
		Rating:              4.8,
		ImageURL:            "https://example.com/tiananmen.jpg",
		Address:             "北京市东城区东长安街",
		OpeningHours:        "全天开放",
		TicketPrice:         "免费",
		ContactPhone:        "010-12345678",
		Website:             "https://example.com",
		Tags:                []string{"历史", "政治", "广场"},
		IsFavorite:          true,
		VisitCount:          15000,
		LastVisited:         1700000000000,
	}
}

func TestScene_RoundTrip(t *testing.T) {
	original := sampleScene()

	decoded, err := DecodeScene(EncodeScene(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestScene_RoundTrip_EmptyOptionalFields(t *testing.T) {
	original := models.Scene{
		ID:        "s2",
		Name:      "x",
		Latitude:  1,
		Longitude: 2,
		Type:      models.SceneTypeFood,
		Tags:      []string{},
	}

	decoded, err := DecodeScene(EncodeScene(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestUserMarker_RoundTrip(t *testing.T) {
	original := models.UserMarker{
		ID:          "m1",
		Name:        "Test",
		Description: "somewhere",
		Latitude:    39.9,
		Longitude:   116.4,
		MarkerType:  models.MarkerTypePlan,
		CreatedAt:   1700000000000,
		Tags:        []string{"a", "b"},
		Color:       models.DefaultMarkerColor,
	}

	decoded, err := DecodeUserMarker(EncodeUserMarker(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeScene_UnknownType(t *testing.T) {
	e := EncodeScene(sampleScene())
	e.Type = "VOLCANIC"

	_, err := DecodeScene(e)
	require.Error(t, err)
	var decodeErr *models.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "type", decodeErr.Field)
	assert.Equal(t, "VOLCANIC", decodeErr.Value)
}

func TestDecodeUserMarker_UnknownType(t *testing.T) {
	e := EncodeUserMarker(models.NewUserMarker("x", "", 0, 0, models.MarkerTypePersonal, nil))
	e.MarkerType = "personal" // enum names are case-sensitive

	_, err := DecodeUserMarker(e)
	var decodeErr *models.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestDecodeTags_Blank(t *testing.T) {
	for _, blob := range []string{"", "   ", "\t"} {
		tags, err := DecodeTags("scene", blob)
		require.NoError(t, err)
		assert.Empty(t, tags)
		assert.NotNil(t, tags)
	}
}

func TestDecodeTags_Malformed(t *testing.T) {
	_, err := DecodeTags("scene", "{not an array")
	var decodeErr *models.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "tags", decodeErr.Field)
}

func TestEncodeTags_NilBecomesEmptyArray(t *testing.T) {
	assert.Equal(t, "[]", EncodeTags(nil))
}

func TestDecodeScenes_FailsWholeReadOnBadRecord(t *testing.T) {
	good := EncodeScene(sampleScene())
	bad := good
	bad.ID = "s-bad"
	bad.Tags = "not json"

	_, err := DecodeScenes([]models.SceneEntity{good, bad})
	require.Error(t, err)
}
