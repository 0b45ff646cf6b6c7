package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond_CityPopulation(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("كم عدد سكان حلب؟", nil)
	assert.Contains(t, answer, "2.1 مليون نسمة")
	assert.Contains(t, answer, "الشهباء")
}

func TestRespond_CityPopulation_EnglishTransliteration(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("What is the population of Aleppo?", nil)
	assert.Contains(t, answer, "2.1 مليون نسمة")
}

func TestRespond_CitySummary_WhenNoSubIntent(t *testing.T) {
	e := NewEngine()

	// 命中城市但没有次级意图关键词时返回主题摘要
	answer := e.Respond("حدثني عن دمشق", nil)
	assert.Contains(t, answer, "الفيحاء")
	assert.Contains(t, answer, "2.5 مليون نسمة")
}

func TestRespond_CityHistory(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("ما هو تاريخ تدمر؟", nil)
	assert.Contains(t, answer, "زنوبيا")
}

func TestRespond_CityPlaces(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("ما أبرز معالم حلب؟", nil)
	assert.Contains(t, answer, "قلعة حلب")
	assert.Contains(t, answer, "1.")
}

func TestRespond_Recipe_ListsIngredientsAndStepsInOrder(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("ما طريقة تحضير الكبة؟", nil)
	require.Contains(t, answer, "المقادير")
	require.Contains(t, answer, "خطوات التحضير")

	var kibbeh dishFacts
	for _, d := range dishes {
		if d.name == "الكبة" {
			kibbeh = d
		}
	}
	require.NotEmpty(t, kibbeh.name)

	// 食材与步骤必须全部出现，且顺序与声明顺序一致
	pos := -1
	for _, ing := range kibbeh.ingredients {
		idx := strings.Index(answer, ing)
		require.Greaterf(t, idx, pos, "食材 %q 顺序错误", ing)
		pos = idx
	}
	pos = -1
	for _, step := range kibbeh.steps {
		idx := strings.Index(answer, step)
		require.Greaterf(t, idx, pos, "步骤 %q 顺序错误", step)
		pos = idx
	}
}

func TestRespond_Greeting(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("مرحبا", nil)
	assert.Contains(t, answer, "أهلاً وسهلاً")
}

func TestRespond_CatchAll_EchoesInput(t *testing.T) {
	e := NewEngine()

	answer := e.Respond("أخبرني عن البرمجة", nil)
	assert.NotEmpty(t, answer)
	assert.Contains(t, answer, "أخبرني عن البرمجة")
}

func TestRespond_CatchAll_Deterministic(t *testing.T) {
	e := NewEngine()

	first := e.Respond("أخبرني عن البرمجة", nil)
	second := e.Respond("أخبرني عن البرمجة", nil)
	assert.Equal(t, first, second)
}

func TestRespond_CatchAll_TruncatesLongEcho(t *testing.T) {
	e := NewEngine()

	long := strings.Repeat("با", 50)
	answer := e.Respond(long, nil)
	assert.NotContains(t, answer, long)
	assert.Contains(t, answer, "...")
}

func TestRespond_NeverEmpty(t *testing.T) {
	e := NewEngine()

	inputs := []string{
		"",
		"   ",
		"؟",
		"xyzzy",
		"ما رأيك بالطقس على المريخ؟",
		"كم عدد سكان حلب؟",
		"ما طريقة تحضير اليبرق؟",
		"حدثني عن التراث السوري",
		"أين تقع سوريا؟",
	}
	for _, input := range inputs {
		assert.NotEmptyf(t, strings.TrimSpace(e.Respond(input, nil)), "输入 %q 得到空回答", input)
	}
}

func TestRelatedQuestions_CategoryMenu(t *testing.T) {
	e := NewEngine()

	related := e.RelatedQuestions("كم عدد سكان حمص؟")
	require.NotEmpty(t, related)
	assert.Contains(t, related, "كم عدد سكان حلب؟")

	related = e.RelatedQuestions("كيف أحضر التبولة؟")
	assert.Contains(t, related, "ما مكونات الفتوش؟")
}

func TestRelatedQuestions_DefaultWhenUnmatched(t *testing.T) {
	e := NewEngine()

	related := e.RelatedQuestions("أخبرني عن البرمجة")
	assert.Equal(t, defaultRelatedQuestions, related)
}

func TestNormalize(t *testing.T) {
	t.Run("小写与修剪", func(t *testing.T) {
		assert.Equal(t, "aleppo", Normalize("  Aleppo  "))
	})

	t.Run("剥离变音符号", func(t *testing.T) {
		assert.Equal(t, "اهلا", Normalize("أَهْلاً"))
	})

	t.Run("剥离拉长符", func(t *testing.T) {
		assert.Equal(t, "مرحبا", Normalize("مـرحبا"))
	})

	t.Run("hamza 变体归一", func(t *testing.T) {
		assert.Equal(t, "اين", Normalize("أين"))
		assert.Equal(t, "اخر", Normalize("آخر"))
	})

	t.Run("词尾 ya 归一", func(t *testing.T) {
		assert.Equal(t, "علي", Normalize("على"))
	})
}
