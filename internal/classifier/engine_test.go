package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.prompts = append(f.prompts, system+"\n"+user)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCaptioner struct {
	caption string
	err     error
	called  bool
}

func (f *fakeCaptioner) Caption(_ context.Context, _ []byte) (string, error) {
	f.called = true
	if f.err != nil {
		return "", f.err
	}
	return f.caption, nil
}

func TestEngine_AIPath(t *testing.T) {
	completer := &fakeCompleter{
		response: `{"title":"Burst water main","category":"Water Leakage","urgency":"High","assigned_department":"Water Board","description":"Water flooding the junction."}`,
	}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "so much water near the junction", nil)
	require.Equal(t, "Burst water main", r.Title)
	require.Equal(t, taxonomy.CategoryWaterLeakage, r.Category)
	require.Equal(t, taxonomy.UrgencyHigh, r.Urgency)
	require.Equal(t, taxonomy.DepartmentWaterBoard, r.Department)
}

func TestEngine_FallsBackWhenBackendUnavailable(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "large pothole on Main St", nil)
	require.Equal(t, taxonomy.CategoryPothole, r.Category)
	require.Equal(t, taxonomy.DepartmentPublicWorks, r.Department)
	require.Equal(t, taxonomy.UrgencyMedium, r.Urgency)
}

func TestEngine_FallsBackOnGarbageOutput(t *testing.T) {
	completer := &fakeCompleter{response: "Sorry, I cannot help with that."}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "streetlight flickering all night", nil)
	require.Equal(t, taxonomy.CategoryStreetlight, r.Category)
	require.Equal(t, taxonomy.DepartmentElectrical, r.Department)
}

func TestEngine_LenientJSONParsing(t *testing.T) {
	completer := &fakeCompleter{
		response: "Sure! Here is the classification:\n" +
			`{"title":"Dead streetlight","category":"Streetlight","urgency":"Medium","assigned_department":"Electrical","description":"Lamp out on the corner."}` +
			"\nLet me know if you need anything else.",
	}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "", nil)
	require.Equal(t, "Dead streetlight", r.Title)
	require.Equal(t, taxonomy.CategoryStreetlight, r.Category)
}

func TestEngine_SanitizesOutOfTaxonomyAIOutput(t *testing.T) {
	completer := &fakeCompleter{
		response: `{"title":"` + strings.Repeat("x", 300) + `","category":"Graffiti","urgency":"Critical","assigned_department":"Mayor","description":"` + strings.Repeat("y", 900) + `"}`,
	}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "weird stuff", nil)
	require.Equal(t, taxonomy.CategoryOther, r.Category)
	require.Equal(t, taxonomy.UrgencyLow, r.Urgency)
	require.Equal(t, taxonomy.DepartmentGeneral, r.Department)
	require.Len(t, r.Title, MaxTitleLength)
	require.Len(t, r.Description, MaxDescriptionLength)
}

func TestEngine_TruncationRespectsRuneBoundaries(t *testing.T) {
	completer := &fakeCompleter{
		response: `{"title":"` + strings.Repeat("x", 99) + `é…","category":"Other","urgency":"Low","assigned_department":"General","description":"` + strings.Repeat("水", 600) + `"}`,
	}
	engine := NewEngine(nil, NewAIClassifier(completer))

	r := engine.Classify(context.Background(), "", nil)
	require.True(t, utf8.ValidString(r.Title))
	require.Equal(t, MaxTitleLength, utf8.RuneCountInString(r.Title))
	require.True(t, utf8.ValidString(r.Description))
	require.Equal(t, MaxDescriptionLength, utf8.RuneCountInString(r.Description))
}

func TestTruncate(t *testing.T) {
	// character count, not byte count
	require.Equal(t, strings.Repeat("é", 50), Truncate(strings.Repeat("é", 60), 50))
	require.Equal(t, strings.Repeat("é", 50), Truncate(strings.Repeat("é", 50), 50))
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "", Truncate("", 5))
}

func TestEngine_CaptionFeedsClassification(t *testing.T) {
	captioner := &fakeCaptioner{caption: "an overflowing garbage bin on the sidewalk"}
	engine := NewEngine(captioner, nil)

	r := engine.Classify(context.Background(), "", []byte{0xff, 0xd8})
	require.True(t, captioner.called)
	require.Equal(t, taxonomy.CategorySanitation, r.Category)
}

func TestEngine_CaptionFailureIsSwallowed(t *testing.T) {
	captioner := &fakeCaptioner{err: errors.New("vision model down")}
	engine := NewEngine(captioner, nil)

	r := engine.Classify(context.Background(), "deep hole in the road", []byte{0xff, 0xd8})
	require.Equal(t, taxonomy.CategoryPothole, r.Category)
}

func TestEngine_CaptionerSkippedWithoutImage(t *testing.T) {
	captioner := &fakeCaptioner{caption: "should never be used"}
	engine := NewEngine(captioner, nil)

	engine.Classify(context.Background(), "anything", nil)
	require.False(t, captioner.called)
}

func TestEngine_NeverFails(t *testing.T) {
	// no captioner, no primary, empty evidence: still a full valid result
	engine := NewEngine(nil, nil)

	r := engine.Classify(context.Background(), "", nil)
	require.Equal(t, DefaultTitle, r.Title)
	require.Equal(t, taxonomy.CategoryOther, r.Category)
	require.Equal(t, taxonomy.UrgencyLow, r.Urgency)
	require.Equal(t, taxonomy.DepartmentGeneral, r.Department)
}

func TestExtractJSON(t *testing.T) {
	obj, ok := extractJSON(`prefix {"a":1,"b":{"c":"}"}} suffix`)
	require.True(t, ok)
	require.Equal(t, `{"a":1,"b":{"c":"}"}}`, obj)

	obj, ok = extractJSON(`{"quote":"she said \"hi\""}`)
	require.True(t, ok)
	require.Equal(t, `{"quote":"she said \"hi\""}`, obj)

	_, ok = extractJSON("no braces here")
	require.False(t, ok)

	_, ok = extractJSON(`{"never":"closed"`)
	require.False(t, ok)
}
