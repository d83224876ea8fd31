// Package rules holds the static pattern rule library: detection rules the
// format detector scores fragments against, and extraction rules the
// structure extractor applies once a type is known. Rules are declarative
// data loaded once at startup; nothing in this package mutates after init.
package rules

import (
	"regexp"

	"github.com/examtools/paperparse/internal/types"
)

// DetectionRule matches a fragment against one question sub-type.
type DetectionRule struct {
	Type           types.QuestionType
	SubType        string
	Patterns       []*regexp.Regexp
	BaseConfidence float64
}

// Category groups detection rules. Iteration order over categories and
// over rules within a category is fixed at registration and serves as the
// detector's tie-break.
type Category struct {
	Name  string
	Rules []DetectionRule
}

func rule(t types.QuestionType, sub string, conf float64, pats ...string) DetectionRule {
	compiled := make([]*regexp.Regexp, len(pats))
	for i, p := range pats {
		compiled[i] = regexp.MustCompile(p)
	}
	return DetectionRule{Type: t, SubType: sub, Patterns: compiled, BaseConfidence: conf}
}

// detectionCategories is the full detection rule table. Seven categories,
// ordered; earlier entries win ties.
var detectionCategories = []Category{
	{
		Name: "listening",
		Rules: []DetectionRule{
			rule(types.TypeListening, "短对话", 0.90,
				`(?i)short\s+conversations?`,
				`(?i)what\s+does\s+the\s+(man|woman)\s+(mean|imply)`,
				`听下面.{0,6}段?对话`,
				`(?i)at\s+the\s+end\s+of\s+each\s+conversation`),
			rule(types.TypeListening, "长对话", 0.88,
				`(?i)longer?\s+conversations?`,
				`听下面.{0,6}段?长对话`,
				`(?i)questions?\s+\d+\s+(through|to|and)\s+\d+\s+are\s+based\s+on\s+the\s+(following\s+)?conversation`),
			rule(types.TypeListening, "短文理解", 0.88,
				`(?i)listen(ing)?\s+to\s+the\s+(following\s+)?passages?`,
				`(?i)questions?\s+\d+\s+(through|to|and)\s+\d+\s+are\s+based\s+on\s+the\s+following\s+passage`,
				`听下面.{0,6}篇?短文`),
			rule(types.TypeListening, "听力理解", 0.85,
				`(?i)listening\s+comprehension`,
				`(?i)section\s+[ABC]`,
				`听力理解`),
			rule(types.TypeListening, "新闻听力", 0.82,
				`(?i)news\s+(report|item)s?`,
				`(?i)you\s+will\s+hear\s+(three|3)\s+news`,
				`听下面.{0,6}段?新闻`),
			rule(types.TypeListening, "访谈听力", 0.80,
				`(?i)interview`,
				`(?i)questions?\s+\d+\s+(through|to|and)\s+\d+\s+are\s+based\s+on\s+the\s+following\s+interview`),
			rule(types.TypeListening, "听力填空", 0.82,
				`(?i)complete\s+the\s+(form|notes?|table|chart)`,
				`(?i)blanks?\s+with\s+the\s+information`,
				`(?i)write\s+(no\s+more\s+than|only\s+one)\s+\w+\s+words?`),
			rule(types.TypeListening, "听录音选图", 0.78,
				`(?i)choose\s+the\s+(right|correct)\s+picture`,
				`听录音.{0,6}选.{0,4}图`),
			rule(types.TypeListening, "听音判断", 0.76,
				`(?i)listen\s+and\s+(judge|decide)`,
				`听录音.{0,6}判断`),
			rule(types.TypeListening, "对话应答", 0.76,
				`(?i)choose\s+the\s+(best|proper)\s+(response|reply)`,
				`(?i)you\s+will\s+hear\s+a\s+question`),
			rule(types.TypeListening, "听写", 0.72,
				`(?i)dictation`,
				`听写`),
			rule(types.TypeListening, "独白理解", 0.78,
				`(?i)monologue`,
				`(?i)you\s+will\s+hear\s+a\s+(talk|speech|lecture)`,
				`听下面.{0,6}段?独白`),
			rule(types.TypeListening, "电话留言", 0.74,
				`(?i)(phone|telephone)\s+message`,
				`(?i)complete\s+the\s+(message|memo)`),
			rule(types.TypeListening, "广播通知", 0.74,
				`(?i)announcement`,
				`(?i)you\s+will\s+hear\s+an?\s+(announcement|broadcast)`),
			rule(types.TypeListening, "听音排序", 0.72,
				`(?i)(number|order)\s+the\s+pictures?`,
				`听录音.{0,6}排序`),
			rule(types.TypeListening, "通用听力", 0.60,
				`(?i)\blisten(ing)?\b`,
				`听力`),
		},
	},
	{
		Name: "reading",
		Rules: []DetectionRule{
			rule(types.TypeReading, "阅读理解", 0.90,
				`(?i)reading\s+comprehension`,
				`(?i)read\s+the\s+(following\s+)?passages?`,
				`(?i)(choose|decide\s+on)\s+the\s+(one|best)\s+(that\s+fits\s+best|answer)`,
				`阅读理解`),
			rule(types.TypeCloze, "完形填空", 0.90,
				`(?i)cloze`,
				`(?i)for\s+each\s+blank\s+in\s+the\s+(following\s+)?passage`,
				`(?i)there\s+are\s+four\s+words\s+or\s+phrases\s+marked`,
				`完形填空`),
			rule(types.TypeReading, "七选五", 0.88,
				`(?i)(five|5)\s+of\s+the\s+(six|seven|6|7)`,
				`(?i)two\s+of\s+which\s+are\s+extra`,
				`(?i)choose\s+the\s+(one|sentence)\s+that\s+(best\s+)?fits\s+(into\s+)?each\s+(of\s+the\s+)?(numbered\s+)?(blank|gap)s?`,
				`七选五`),
			rule(types.TypeFillBlank, "选词填空", 0.88,
				`(?i)fill\s+in\s+each\s+blank\s+with\s+a\s+proper\s+word`,
				`(?i)word\s+(bank|box)`,
				`(?i)each\s+word\s+can\s+(only\s+)?be\s+used\s+(only\s+)?once`,
				`(?i)note\s+that\s+there\s+is\s+one\s+word\s+more\s+than\s+you\s+need`),
			rule(types.TypeReading, "任务型阅读", 0.82,
				`(?i)task[-\s]?based\s+reading`,
				`任务型阅读`),
			rule(types.TypeReading, "信息匹配", 0.82,
				`(?i)match\s+(them|each\s+(statement|description))\s+(to|with)\s+the\s+paragraphs?`,
				`(?i)the\s+information\s+given\s+in\s+the\s+(passage|text)`),
			rule(types.TypeReading, "判断正误", 0.80,
				`(?i)(true\s+or\s+false|T\s*/\s*F)`,
				`(?i)decide\s+whether\s+the\s+(following\s+)?statements?\s+(is|are)\s+true`,
				`判断正误`),
			rule(types.TypeReading, "主旨大意", 0.72,
				`(?i)(main\s+idea|best\s+title)\s+(of|for)\s+(the|this)\s+passage`,
				`(?i)what\s+is\s+the\s+passage\s+mainly\s+about`),
			rule(types.TypeReading, "细节理解", 0.70,
				`(?i)according\s+to\s+the\s+(passage|text|author|paragraph)`,
				`(?i)which\s+of\s+the\s+following\s+(is|are)\s+(true|mentioned|NOT)`),
			rule(types.TypeReading, "推理判断", 0.70,
				`(?i)(can\s+be\s+)?(inferred|concluded|learned)\s+(from|that)`,
				`(?i)the\s+author\s+(implies|suggests)`),
			rule(types.TypeReading, "词义猜测", 0.70,
				`(?i)the\s+(underlined\s+)?(word|phrase)\s+["“][^"”]+["”]\s+(probably\s+)?(means?|refers?\s+to)`,
				`(?i)closest\s+in\s+meaning\s+to`),
			rule(types.TypeReading, "回答问题", 0.68,
				`(?i)answer\s+the\s+(following\s+)?questions?\s+(in\s+(complete\s+)?sentences?|briefly)`,
				`(?i)read\s+the\s+passage\s+and\s+answer`),
			rule(types.TypeReading, "篇章结构", 0.68,
				`(?i)the\s+(structure|organization)\s+of\s+the\s+passage`,
				`(?i)which\s+paragraph\s+(mainly\s+)?(discusses|describes)`),
			rule(types.TypeReading, "观点态度", 0.68,
				`(?i)the\s+author'?s?\s+(attitude|tone|opinion)\s+(towards?|about)`,
				`(?i)how\s+does\s+the\s+(author|writer)\s+feel`),
			rule(types.TypeReading, "广告应用文阅读", 0.70,
				`(?i)(opening\s+hours?|admission|ticket\s+prices?)`,
				`(?i)(for\s+more\s+information|visit\s+our\s+website|call\s+us\s+at)`),
			rule(types.TypeReading, "图表阅读", 0.70,
				`(?i)(according\s+to|as\s+(is\s+)?shown\s+in)\s+the\s+(chart|table|graph|diagram)`,
				`图表`),
			rule(types.TypeReading, "六选四", 0.84,
				`六选四`,
				`(?i)four\s+of\s+the\s+six\s+(sentences?|statements?)`,
				`(?i)two\s+of\s+the\s+(sentences?|statements?)\s+(are\s+)?(extra|not\s+needed)`),
			rule(types.TypeReading, "通用阅读", 0.55,
				`(?i)\bpassage\b`,
				`(?i)\bparagraph\s+\d`,
				`阅读`),
		},
	},
	{
		Name: "choice",
		Rules: []DetectionRule{
			rule(types.TypeChoice, "单项选择", 0.85,
				`(?m)^\s*[A-D][).、．]\s*\S+`,
				`(?i)choose\s+the\s+(one|best)\s+answer`,
				`单项选择`),
			rule(types.TypeFillBlank, "语法选择", 0.85,
				`(?i)grammar\s+and\s+vocabulary`,
				`(?i)fill\s+in\s+the\s+blanks?\s+to\s+make\s+the\s+passage\s+coherent`,
				`(?i)use\s+one\s+word\s+that\s+best\s+fits\s+each\s+blank`,
				`语法.{0,4}选择`),
			rule(types.TypeChoice, "词汇选择", 0.80,
				`(?i)vocabulary`,
				`(?i)choose\s+the\s+word\s+or\s+expression`,
				`词汇`),
			rule(types.TypeChoice, "情景选择", 0.75,
				`(?i)choose\s+the\s+(best|proper)\s+(response|answer)\s+(to|for)\s+(each\s+)?(situation|dialogue)`,
				`情景`),
			rule(types.TypeChoice, "辨音选择", 0.72,
				`(?i)(underlined|different)\s+(part|pronunciation)`,
				`划线部分读音`),
			rule(types.TypeChoice, "时态语态选择", 0.74,
				`(?i)(present|past|future)\s+(perfect|continuous|simple)`,
				`(?m)^\s*A[).、．]\s*\w+ed\b.*\n\s*B[).、．]\s*(is|was|has|had|will)\b`),
			rule(types.TypeChoice, "交际用语", 0.72,
				`(?i)[-—]\s*["“]?(Thank\s+you|Excuse\s+me|Would\s+you\s+mind|How\s+about)`,
				`交际用语|情景交际`),
			rule(types.TypeChoice, "近义词选择", 0.70,
				`(?i)(similar|closest)\s+in\s+meaning`,
				`(?i)can\s+be\s+replaced\s+by`),
			rule(types.TypeChoice, "多项选择", 0.68,
				`(?i)(one\s+or\s+more|more\s+than\s+one)\s+(answer|option)s?\s+(may\s+be|is|are)\s+(correct|possible)`,
				`多项选择`),
			rule(types.TypeChoice, "补全对话选择", 0.72,
				`(?i)complete\s+the\s+(dialogue|conversation)\s+with\s+the\s+(best|proper)\s+(choices?|options?)`,
				`补全对话`),
			rule(types.TypeChoice, "通用选择", 0.55,
				`(?m)^\s*\d+[.、．].{0,200}\n\s*A[).、．]`,
				`(?m)^\s*[B-D][).、．]\s*\S+`),
		},
	},
	{
		Name: "fill-blank",
		Rules: []DetectionRule{
			rule(types.TypeFillBlank, "语法填空", 0.88,
				`(?i)fill\s+in\s+the\s+blanks?\s+with\s+the\s+proper\s+forms?`,
				`(?i)(use\s+)?the\s+(given\s+word|word\s+given\s+in\s+the\s+brackets?)`,
				`_{2,}\s*[(（][a-zA-Z]+[)）]`,
				`用.{0,8}适当形式填空`),
			rule(types.TypeFillBlank, "首字母填空", 0.84,
				`(?i)first\s+letters?\s+(given|provided)`,
				`_{2,}\s*[(（]首字母`,
				`根据首字母`),
			rule(types.TypeFillBlank, "单词拼写", 0.82,
				`(?i)(spell|write)\s+the\s+words?\s+according\s+to`,
				`根据.{0,8}(中文|汉语|音标).{0,6}(提示|意思)`,
				`单词拼写`),
			rule(types.TypeFillBlank, "句子填空", 0.78,
				`(?i)complete\s+the\s+(following\s+)?sentences?`,
				`(?i)one\s+word\s+for\s+each\s+blank`,
				`完成句子`),
			rule(types.TypeFillBlank, "短文填空", 0.78,
				`(?i)complete\s+the\s+(following\s+)?passage`,
				`短文填空`),
			rule(types.TypeFillBlank, "动词填空", 0.80,
				`(?i)proper\s+(forms?|tenses?)\s+of\s+the\s+verbs?`,
				`用.{0,6}动词.{0,6}(适当|正确)形式`),
			rule(types.TypeFillBlank, "介词填空", 0.76,
				`(?i)fill\s+in\s+the\s+blanks?\s+with\s+(proper\s+)?prepositions?`,
				`用.{0,4}介词填空`),
			rule(types.TypeFillBlank, "词形变换", 0.78,
				`(?i)(proper|correct)\s+forms?\s+of\s+the\s+(given\s+)?words?`,
				`用.{0,8}所给单词的(适当|正确)形式`),
			rule(types.TypeFillBlank, "冠词填空", 0.74,
				`(?i)fill\s+in\s+the\s+blanks?\s+with\s+(a|an|the|articles?)\b`,
				`用.{0,4}冠词填空`),
			rule(types.TypeFillBlank, "连词填空", 0.74,
				`(?i)fill\s+in\s+the\s+blanks?\s+with\s+(proper\s+)?(conjunctions?|connectives?)`,
				`用.{0,4}连词填空`),
			rule(types.TypeFillBlank, "对话填空", 0.74,
				`(?i)complete\s+the\s+(dialogue|conversation)`,
				`补全对话`),
			rule(types.TypeFillBlank, "音标填词", 0.70,
				`根据音标`,
				`(?i)according\s+to\s+the\s+phonetic\s+(symbols?|transcriptions?)`),
			rule(types.TypeFillBlank, "代词填空", 0.72,
				`(?i)fill\s+in\s+the\s+blanks?\s+with\s+the\s+(proper|correct)\s+pronouns?`,
				`代词填空|用.{0,6}代词.{0,4}填空`),
			rule(types.TypeFillBlank, "通用填空", 0.55,
				`_{3,}`,
				`(?m)^\s*\d+[.、．].{0,80}_{2,}`),
		},
	},
	{
		Name: "translation",
		Rules: []DetectionRule{
			rule(types.TypeTranslation, "中译英", 0.90,
				`(?i)translate\s+the\s+(following\s+)?sentences?\s+into\s+English`,
				`(?i)using\s+the\s+words?\s+(or\s+phrases?\s+)?given\s+in\s+the\s+brackets?`,
				`中译英|汉译英`,
				`将下列句子译成英语`),
			rule(types.TypeTranslation, "英译中", 0.88,
				`(?i)translate\s+the\s+(following\s+|underlined\s+)?sentences?\s+into\s+Chinese`,
				`英译中|英译汉`,
				`译成汉语|译成中文`),
			rule(types.TypeTranslation, "句子翻译", 0.80,
				`(?i)\btranslations?\b`,
				`翻译.{0,6}句子|句子翻译`),
			rule(types.TypeTranslation, "短语翻译", 0.74,
				`(?i)translate\s+the\s+(following\s+)?(phrases?|expressions?)`,
				`短语翻译|翻译.{0,4}短语`),
			rule(types.TypeTranslation, "段落翻译", 0.76,
				`(?i)translate\s+the\s+(following\s+)?paragraphs?`,
				`段落翻译`),
			rule(types.TypeTranslation, "划线翻译", 0.74,
				`(?i)translate\s+the\s+underlined\s+(parts?|sentences?)`,
				`翻译.{0,6}划线`),
			rule(types.TypeTranslation, "完成译句", 0.72,
				`根据汉语意思完成(下列)?句子`,
				`(?i)complete\s+the\s+(English\s+)?sentences?\s+according\s+to\s+the\s+Chinese`),
			rule(types.TypeTranslation, "补全翻译", 0.72,
				`(?i)complete\s+the\s+(following\s+)?translations?`,
				`补全.{0,4}译句|完成.{0,4}翻译`),
			rule(types.TypeTranslation, "词汇翻译", 0.70,
				`(?i)translate\s+the\s+(following\s+)?words?`,
				`单词翻译|词汇翻译`),
			rule(types.TypeTranslation, "情景翻译", 0.68,
				`(?i)translate\s+according\s+to\s+the\s+(situation|context)`,
				`根据情景.{0,6}翻译`),
		},
	},
	{
		Name: "writing",
		Rules: []DetectionRule{
			rule(types.TypeWriting, "概要写作", 0.90,
				`(?i)summar(y|ize|ise)`,
				`(?i)in\s+no\s+more\s+than\s+\d+\s+words`,
				`概要写作|摘要写作`),
			rule(types.TypeWriting, "指导性写作", 0.88,
				`(?i)guided\s+writing`,
				`(?i)write\s+an?\s+(essay|article|letter|email|passage|composition)\s+(of|in)\s+(at\s+least\s+)?\d+\s+words`,
				`指导性写作`),
			rule(types.TypeWriting, "书面表达", 0.84,
				`(?i)writing`,
				`书面表达`,
				`(?i)your\s+(essay|article|letter|composition)\s+(should|must)\s+include`),
			rule(types.TypeWriting, "应用文写作", 0.80,
				`(?i)write\s+an?\s+(invitation|notice|reply|application|letter\s+of)`,
				`应用文`),
			rule(types.TypeWriting, "看图写作", 0.78,
				`(?i)(based\s+on|according\s+to)\s+the\s+pictures?\s*(below|given)?`,
				`看图作文|看图写话`),
			rule(types.TypeWriting, "读写结合", 0.76,
				`(?i)read\s+the\s+(following\s+)?(passage|material)\s+and\s+(then\s+)?write`,
				`读后续写`),
			rule(types.TypeWriting, "改写句子", 0.72,
				`(?i)rewrite\s+the\s+(following\s+)?sentences?`,
				`(?i)keep\s+the\s+(original\s+)?meaning`,
				`改写句子|句型转换`),
			rule(types.TypeWriting, "连词成句", 0.72,
				`(?i)(put|arrange)\s+the\s+words?\s+in\s+(the\s+)?(correct|right)\s+order`,
				`连词成句`),
			rule(types.TypeWriting, "图表作文", 0.74,
				`(?i)the\s+(chart|table|graph)\s+below\s+shows`,
				`图表作文`),
			rule(types.TypeWriting, "书信写作", 0.76,
				`(?i)write\s+a\s+letter\s+(to|of)`,
				`(?i)(Dear\s+Sir\s+or\s+Madam|Yours\s+(sincerely|faithfully))`),
			rule(types.TypeWriting, "通知写作", 0.72,
				`(?i)write\s+a\s+notice`,
				`写.{0,4}通知`),
			rule(types.TypeWriting, "日记写作", 0.70,
				`(?i)(write|keep)\s+a\s+diary`,
				`写.{0,4}日记`),
		},
	},
	{
		Name: "matching",
		Rules: []DetectionRule{
			rule(types.TypeMatching, "搭配题", 0.85,
				`(?i)match\s+(the\s+)?(words?|items?|columns?|sentences?)\s+(in\s+column\s+A\s+)?with`,
				`(?i)column\s+A.{0,400}column\s+B`,
				`搭配|连线`),
			rule(types.TypeMatching, "句子匹配", 0.80,
				`(?i)match\s+each\s+(question|sentence|statement)\s+(to|with)`,
				`(?i)choose\s+from\s+the\s+(list|box)\s+(below|above)`),
			rule(types.TypeMatching, "图文匹配", 0.76,
				`(?i)match\s+the\s+pictures?\s+with`,
				`图文匹配`),
			rule(types.TypeMatching, "标题匹配", 0.78,
				`(?i)choose\s+the\s+(best|most\s+suitable)\s+(headings?|titles?)\s+for`,
				`(?i)match\s+the\s+headings?\s+with\s+the\s+paragraphs?`),
			rule(types.TypeMatching, "问答匹配", 0.74,
				`(?i)match\s+the\s+questions?\s+with\s+the\s+answers?`,
				`问答匹配`),
			rule(types.TypeMatching, "释义匹配", 0.72,
				`(?i)match\s+the\s+words?\s+with\s+(their\s+)?(meanings?|definitions?)`,
				`(?i)match\s+each\s+(word|expression)\s+with\s+its`),
			rule(types.TypeMatching, "应答匹配", 0.72,
				`(?i)choose\s+the\s+(best|proper)\s+(response|reply)\s+to\s+each`,
				`情景应答`),
			rule(types.TypeMatching, "分类匹配", 0.70,
				`(?i)put\s+the\s+(words?|items?)\s+into\s+the\s+(correct|right)\s+(groups?|categories)`,
				`分类.{0,4}匹配|归类`),
			rule(types.TypeMatching, "同义句匹配", 0.70,
				`(?i)match\s+the\s+sentences?\s+with\s+(the\s+)?(same|similar)\s+meanings?`,
				`同义句匹配`),
		},
	},
}

// Categories returns the detection rule table in registration order.
func Categories() []Category {
	return detectionCategories
}

// RuleCount reports the total number of detection rules. Used by tests and
// the CLI to sanity-check the table at startup.
func RuleCount() int {
	n := 0
	for _, c := range detectionCategories {
		n += len(c.Rules)
	}
	return n
}
