package knowledge

import (
	"fmt"
	"strings"
)

// subIntent 主题内的次级意图：命中后返回预先组装好的回答
type subIntent struct {
	name     string
	keywords []string
	answer   string
}

// topic 主题条目：触发关键词 + 次级意图 + 主题摘要
type topic struct {
	name       string
	keywords   []string
	subIntents []subIntent
	summary    string
}

// category 按优先级排列的主题分组
type category struct {
	name    string
	topics  []topic
	related []string // 该分组的推荐问题菜单
}

// cityFacts 城市事实
type cityFacts struct {
	name       string
	nickname   string
	population string
	landmarks  []string
	history    string
}

// dishFacts 菜肴事实：食材与步骤按声明顺序组装进回答
type dishFacts struct {
	name        string
	description string
	ingredients []string
	steps       []string
}

var cities = []cityFacts{
	{
		name:       "دمشق",
		nickname:   "الفيحاء",
		population: "2.5 مليون نسمة",
		landmarks:  []string{"الجامع الأموي", "سوق الحميدية", "قصر العظم", "جبل قاسيون", "التكية السليمانية"},
		history:    "تُعدّ دمشق من أقدم المدن المأهولة في العالم، إذ يمتد تاريخها لأكثر من 11 ألف سنة، وكانت عاصمة الدولة الأموية في أوج اتساعها.",
	},
	{
		name:       "حلب",
		nickname:   "الشهباء",
		population: "2.1 مليون نسمة",
		landmarks:  []string{"قلعة حلب", "الجامع الأموي الكبير", "سوق المدينة المسقوف", "خان الوزير", "حديقة السبيل"},
		history:    "حلب مدينة موغلة في القدم سكنت منذ الألفية السادسة قبل الميلاد، وكانت محطة رئيسية على طريق الحرير ومركزاً تجارياً يربط الشرق بالبحر المتوسط.",
	},
	{
		name:       "حمص",
		nickname:   "مدينة ابن الوليد",
		population: "800 ألف نسمة",
		landmarks:  []string{"جامع خالد بن الوليد", "قلعة الحصن القريبة منها", "كنيسة أم الزنار", "ساعة حمص القديمة"},
		history:    "عُرفت حمص قديماً باسم إيميسا، وتقع في منتصف الطريق بين دمشق وحلب على نهر العاصي، ودُفن فيها القائد خالد بن الوليد.",
	},
	{
		name:       "اللاذقية",
		nickname:   "عروس الساحل",
		population: "700 ألف نسمة",
		landmarks:  []string{"الكورنيش البحري", "مدينة أوغاريت الأثرية", "شاطئ الشاطئ الأزرق", "قلعة صلاح الدين القريبة"},
		history:    "اللاذقية أهم مرفأ سوري على البحر المتوسط، وفي جوارها اكتُشفت في أوغاريت أول أبجدية مكتملة في التاريخ.",
	},
	{
		name:       "تدمر",
		nickname:   "عروس الصحراء",
		population: "50 ألف نسمة",
		landmarks:  []string{"معبد بل", "قوس النصر", "المسرح الأثري", "شارع الأعمدة", "قلعة فخر الدين المعني"},
		history:    "ازدهرت تدمر في القرن الثالث الميلادي كمملكة تجارية بقيادة الملكة زنوبيا، وما تزال أعمدتها شاهدة على عظمة حضارتها.",
	},
}

var dishes = []dishFacts{
	{
		name:        "الكبة",
		description: "أشهر الأطباق الحلبية، أقراص من البرغل واللحم تُحشى وتُقلى، ولها عشرات الأصناف.",
		ingredients: []string{"برغل ناعم", "لحم غنم مفروم", "بصل", "صنوبر", "بهارات حلبية", "ملح", "زيت للقلي"},
		steps: []string{
			"انقع البرغل بالماء نصف ساعة ثم اعصره جيداً",
			"اعجن البرغل مع نصف كمية اللحم والملح حتى تتماسك العجينة",
			"حمّص البصل مع باقي اللحم والصنوبر والبهارات لتحضير الحشوة",
			"شكّل أقراصاً مجوفة واحشها ثم أغلقها على شكل مغزل",
			"اقلِ الأقراص بالزيت الغزير حتى تتحمر وقدّمها ساخنة",
		},
	},
	{
		name:        "التبولة",
		description: "سلطة شامية خضراء أساسها البقدونس والبرغل الناعم، حاضرة على كل مائدة سورية.",
		ingredients: []string{"بقدونس", "برغل ناعم", "بندورة", "نعناع", "بصل اخضر", "عصير ليمون", "زيت زيتون", "ملح"},
		steps: []string{
			"اغسل البقدونس والنعناع وافرمهما فرماً ناعماً",
			"انقع البرغل بعصير الليمون حتى يلين",
			"قطّع البندورة والبصل الأخضر قطعاً صغيرة",
			"اخلط المكونات جميعها وأضف زيت الزيتون والملح",
			"قدّمها بعد عشر دقائق من الراحة مع أوراق الخس",
		},
	},
	{
		name:        "الفتوش",
		description: "سلطة شعبية تجمع الخضار الموسمية مع الخبز المحمص ودبس الرمان.",
		ingredients: []string{"خبز محمص", "خيار", "بندورة", "فجل", "بقلة", "نعناع", "دبس رمان", "زيت زيتون", "سماق"},
		steps: []string{
			"قطّع الخضار قطعاً متوسطة واخلطها في وعاء واسع",
			"أضف البقلة والنعناع المفروم",
			"حضّر الصلصة من دبس الرمان وزيت الزيتون والسماق",
			"اسكب الصلصة فوق الخضار وقلّبها",
			"أضف الخبز المحمص قبل التقديم مباشرة ليبقى مقرمشاً",
		},
	},
	{
		name:        "اليبرق",
		description: "ورق عنب محشو بالأرز واللحم، يُلف رفيعاً ويُطهى على نار هادئة.",
		ingredients: []string{"ورق عنب", "ارز قصير الحبة", "لحم مفروم", "سمن", "بهارات", "ملح", "عصير ليمون", "اضلاع غنم"},
		steps: []string{
			"اسلق ورق العنب دقيقتين ثم صفّه",
			"اخلط الأرز مع اللحم والسمن والبهارات والملح",
			"ضع قليلاً من الحشوة في كل ورقة ولفّها بإحكام",
			"رصّ الأضلاع في قعر الطنجرة ثم رصّ اليبرق فوقها",
			"أضف الماء وعصير الليمون واطهه على نار هادئة ساعتين",
		},
	},
}

// 城市次级意图关键词（已归一化）
var (
	populationKeywords = []string{"عدد السكان", "كم عدد", "سكان", "نسمه", "نسمة", "population", "how many people"}
	placesKeywords     = []string{"اماكن", "معالم", "زياره", "زيارة", "سياح", "ازور", "places", "visit"}
	historyKeywords    = []string{"تاريخ", "history", "تاسست"}
	recipeKeywords     = []string{"طريقه", "طريقة", "وصفه", "وصفة", "مقادير", "مكونات", "تحضير", "اطبخ", "recipe", "cook"}
)

// composePopulation 组装人口回答
func composePopulation(c cityFacts) string {
	return fmt.Sprintf("تُلقّب مدينة %s بـ«%s»، ويبلغ عدد سكانها نحو %s، وهي من أهم المدن السورية.",
		c.name, c.nickname, c.population)
}

// composePlaces 组装景点回答
func composePlaces(c cityFacts) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("من أبرز الأماكن التي تستحق الزيارة في %s:\n", c.name))
	for i, lm := range c.landmarks {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, lm))
	}
	builder.WriteString("زيارة موفقة!")
	return builder.String()
}

// composeCitySummary 组装城市摘要
func composeCitySummary(c cityFacts) string {
	return fmt.Sprintf("%s «%s»: يبلغ عدد سكانها نحو %s. %s يمكنك أن تسألني عن عدد سكانها أو تاريخها أو أماكن الزيارة فيها.",
		c.name, c.nickname, c.population, c.history)
}

// composeRecipe 组装菜谱回答：食材与步骤严格按声明顺序列出
func composeRecipe(d dishFacts) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("طريقة تحضير %s:\n\nالمقادير:\n", d.name))
	for _, ing := range d.ingredients {
		builder.WriteString(fmt.Sprintf("- %s\n", ing))
	}
	builder.WriteString("\nخطوات التحضير:\n")
	for i, step := range d.steps {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	builder.WriteString("\nصحتين وعافية!")
	return builder.String()
}

// buildCategories 构建全部分类表（进程内只执行一次，之后只读）
func buildCategories() []category {
	cityTopics := make([]topic, 0, len(cities))
	for _, c := range cities {
		cityTopics = append(cityTopics, topic{
			name:     c.name,
			keywords: cityKeywords(c.name),
			subIntents: []subIntent{
				{name: "population", keywords: populationKeywords, answer: composePopulation(c)},
				{name: "places", keywords: placesKeywords, answer: composePlaces(c)},
				{name: "history", keywords: historyKeywords, answer: fmt.Sprintf("%s: %s", c.name, c.history)},
			},
			summary: composeCitySummary(c),
		})
	}

	dishTopics := make([]topic, 0, len(dishes))
	for _, d := range dishes {
		dishTopics = append(dishTopics, topic{
			name:     d.name,
			keywords: dishKeywords(d.name),
			subIntents: []subIntent{
				{name: "recipe", keywords: recipeKeywords, answer: composeRecipe(d)},
			},
			summary: fmt.Sprintf("%s: %s اسألني عن طريقة التحضير وسأعطيك المقادير والخطوات كاملة.", d.name, d.description),
		})
	}

	return []category{
		{
			name:   "cities",
			topics: cityTopics,
			related: []string{
				"كم عدد سكان حلب؟",
				"ما أبرز الأماكن السياحية في دمشق؟",
				"حدثني عن تاريخ تدمر",
			},
		},
		{
			name:   "recipes",
			topics: dishTopics,
			related: []string{
				"ما طريقة تحضير الكبة الحلبية؟",
				"كيف أحضر التبولة؟",
				"ما مكونات الفتوش؟",
			},
		},
		{
			name: "heritage",
			topics: []topic{
				{
					name:     "folklore",
					keywords: []string{"تراث", "دبكه", "دبكة", "فلكلور", "عتابا", "موسيقا", "رقص"},
					summary:  "من أبرز ملامح التراث السوري الدبكة الشعبية التي ترافق الأعراس، وفنون العتابا والموّال والقدود الحلبية التي أدرجتها اليونسكو على قائمة التراث الإنساني غير المادي.",
				},
				{
					name:     "crafts",
					keywords: []string{"حرف", "صناعات يدويه", "صناعات يدوية", "صابون الغار", "بروكار", "موزاييك", "نحاس"},
					summary:  "تشتهر سوريا بحرفها اليدوية العريقة: صابون الغار الحلبي، وقماش البروكار الدمشقي المنسوج بخيوط الذهب والفضة، وفن الموزاييك (تطعيم الخشب بالصدف)، والنقش على النحاس.",
				},
				{
					name:     "festivals",
					keywords: []string{"اعياد", "عيد", "رمضان", "مهرجان", "احتفال"},
					summary:  "تتشارك العائلات السورية الاحتفال بالأعياد الدينية والاجتماعية، فتمتلئ الأسواق قبل عيدي الفطر والأضحى، وتشتهر موائد رمضان بالمعروك والعرقسوس والتمر هندي.",
				},
			},
			related: []string{
				"ما هي أشهر الحرف اليدوية السورية؟",
				"حدثني عن القدود الحلبية",
				"كيف يحتفل السوريون بالأعياد؟",
			},
		},
		{
			name: "general",
			topics: []topic{
				{
					name:     "geography",
					keywords: []string{"جغرافيا", "مناخ", "طقس", "موقع", "حدود", "مساحه", "مساحة"},
					summary:  "تقع سوريا في قلب الشرق الأوسط على الساحل الشرقي للبحر المتوسط، بمساحة تقارب 185 ألف كيلومتر مربع، ويتنوع مناخها بين متوسطي على الساحل وقاري في البادية.",
				},
				{
					name:     "economy",
					keywords: []string{"اقتصاد", "صناعه", "صناعة", "زراعه", "زراعة", "تجاره", "تجارة", "نفط"},
					summary:  "يقوم الاقتصاد السوري تقليدياً على الزراعة (القمح والقطن والزيتون) والصناعات النسيجية والغذائية، إضافة إلى التجارة التي اشتهرت بها أسواق دمشق وحلب عبر التاريخ.",
				},
				{
					name:     "syria",
					keywords: []string{"سوريا", "سورية", "syria"},
					summary:  "سوريا بلد عريق عاصمته دمشق، يضم مزيجاً فريداً من الحضارات والمدن التاريخية والمطبخ الشهير. اسألني عن أي مدينة أو طبق أو معلم تراثي وسأجيبك.",
				},
				{
					name:     "greeting",
					keywords: []string{"مرحبا", "اهلا", "السلام عليكم", "صباح الخير", "مساء الخير", "hello", "hi"},
					summary:  "أهلاً وسهلاً بك! أنا مساعدك للإجابة عن الأسئلة المتعلقة بسوريا: مدنها وتاريخها ومطبخها وتراثها. ما الذي تود معرفته؟",
				},
			},
			related: []string{
				"أين تقع سوريا وما مساحتها؟",
				"ما أهم المحاصيل الزراعية في سوريا؟",
				"حدثني عن دمشق",
			},
		},
	}
}

// cityKeywords 城市触发关键词（阿拉伯语 + 英语转写）
func cityKeywords(name string) []string {
	translit := map[string][]string{
		"دمشق":    {"damascus", "الشام"},
		"حلب":     {"aleppo", "halab"},
		"حمص":     {"homs"},
		"اللاذقية": {"latakia", "اللاذقيه"},
		"تدمر":    {"palmyra"},
	}
	return append([]string{Normalize(name)}, translit[name]...)
}

// dishKeywords 菜肴触发关键词
func dishKeywords(name string) []string {
	translit := map[string][]string{
		"الكبة":   {"كبه", "كبة", "kibbeh", "kebbeh"},
		"التبولة": {"تبوله", "تبولة", "tabbouleh"},
		"الفتوش":  {"فتوش", "fattoush"},
		"اليبرق":  {"يبرق", "ورق عنب", "ورق العنب", "محشي", "dolma"},
	}
	return append([]string{Normalize(name)}, translit[name]...)
}

// catchAllPool 兜底回答模板池：%s 处回显用户输入
var catchAllPool = []string{
	"لم أجد معلومات دقيقة عن «%s» في معرفتي المحلية، لكن يسعدني مساعدتك في مواضيع أخرى: المدن السورية (دمشق، حلب، حمص...)، المطبخ السوري (الكبة، التبولة...)، أو التراث والحرف اليدوية.",
	"سؤالك «%s» خارج ما أحفظه حالياً. جرّب أن تسألني عن مدينة سورية، أو عن طريقة تحضير طبق شامي، أو عن التراث والجغرافيا والاقتصاد.",
	"عذراً، لا أملك إجابة جاهزة عن «%s». يمكنك سؤالي مثلاً: كم عدد سكان حلب؟ ما طريقة تحضير التبولة؟ ما أشهر الحرف اليدوية السورية؟",
}

// defaultRelatedQuestions 未命中任何分类时的固定推荐问题
var defaultRelatedQuestions = []string{
	"كم عدد سكان حلب؟",
	"ما طريقة تحضير الكبة؟",
	"ما أبرز معالم دمشق؟",
	"حدثني عن التراث السوري",
}
