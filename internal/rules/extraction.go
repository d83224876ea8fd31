package rules

import (
	"regexp"

	"github.com/examtools/paperparse/internal/types"
)

// ExtractionRule pulls structured fields out of a fragment once its type is
// known. Each pattern is optional; a nil pattern leaves the field unset.
// QuestionPattern and AnswerPattern use their first capture group when one
// exists, otherwise the whole match. OptionsPattern is applied with
// FindAllStringSubmatch to build the ordered option list.
type ExtractionRule struct {
	Key             string
	QuestionPattern *regexp.Regexp
	OptionsPattern  *regexp.Regexp
	AnswerPattern   *regexp.Regexp
	MetadataPattern *regexp.Regexp
	MetadataKey     string // map key for the metadata capture; defaults to "score"
}

// ExtractionKey builds the lookup key for a detected type and sub-type.
func ExtractionKey(t types.QuestionType, subType string) string {
	return string(t) + "_" + subType
}

func re(p string) *regexp.Regexp {
	if p == "" {
		return nil
	}
	return regexp.MustCompile(p)
}

// Shared building blocks. Option markers tolerate ")" "." "、" "．" after the
// letter; answers tolerate both "Answer:" and "答案:" spellings.
const (
	numberedQuestion = `(?m)^\s*(?:\(?\s*\)?\s*)?(\d{1,3})\s*[.、．)]\s*(.+)$`
	letterOptions    = `(?m)^\s*([A-H])\s*[).、．]\s*(.+?)\s*$`
	inlineOptions    = `\b([A-D])\s*[).、．]\s*([^A-D\n]{1,80}?)(?:\s{2,}|\t|$)`
	answerLine       = `(?im)^\s*(?:answer|key|答案|参考答案)\s*[:：]?\s*([A-H](?:\s*[,，]?\s*[A-H])*|.+)$`
	scoreMeta        = `[(（]\s*(?:每小题\s*)?(\d+(?:\.\d+)?)\s*分\s*[)）]|\b(\d+)\s*(?:points?|marks?)\b`
)

var extractionRules = map[string]ExtractionRule{}

func register(key string, r ExtractionRule) {
	r.Key = key
	if r.MetadataKey == "" {
		r.MetadataKey = "score"
	}
	extractionRules[key] = r
}

func init() {
	// Listening. All listening sub-types share the numbered-stem/lettered-
	// option shape; transcripts are not part of the fragment at this stage.
	for _, sub := range []string{"短对话", "长对话", "短文理解", "听力理解", "新闻听力", "访谈听力", "独白理解", "对话应答", "通用听力"} {
		register(ExtractionKey(types.TypeListening, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			OptionsPattern:  re(letterOptions),
			AnswerPattern:   re(answerLine),
			MetadataPattern: re(scoreMeta),
		})
	}
	register(ExtractionKey(types.TypeListening, "听力填空"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		AnswerPattern:   re(answerLine),
		MetadataPattern: re(scoreMeta),
	})

	// Reading comprehension and its sub-skills.
	for _, sub := range []string{"阅读理解", "主旨大意", "细节理解", "推理判断", "词义猜测", "观点态度", "篇章结构", "广告应用文阅读", "图表阅读", "通用阅读"} {
		register(ExtractionKey(types.TypeReading, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			OptionsPattern:  re(letterOptions),
			AnswerPattern:   re(answerLine),
			MetadataPattern: re(scoreMeta),
		})
	}
	register(ExtractionKey(types.TypeReading, "七选五"), ExtractionRule{
		QuestionPattern: re(`(?m)^\s*(\d{1,3})\s*[.、．]?\s*(_{2,}.*)$`),
		OptionsPattern:  re(letterOptions),
		AnswerPattern:   re(answerLine),
	})
	register(ExtractionKey(types.TypeReading, "判断正误"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		AnswerPattern:   re(`(?im)^\s*(?:answer|答案)\s*[:：]?\s*(T|F|True|False|正确|错误)\s*$`),
	})
	register(ExtractionKey(types.TypeReading, "任务型阅读"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		AnswerPattern:   re(answerLine),
		MetadataPattern: re(scoreMeta),
	})
	register(ExtractionKey(types.TypeReading, "回答问题"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		AnswerPattern:   re(answerLine),
	})
	register(ExtractionKey(types.TypeReading, "信息匹配"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		OptionsPattern:  re(letterOptions),
		AnswerPattern:   re(answerLine),
	})

	// Cloze.
	register(ExtractionKey(types.TypeCloze, "完形填空"), ExtractionRule{
		QuestionPattern: re(`(?m)^\s*(\d{1,3})\s*[.、．]\s*(.*)$`),
		OptionsPattern:  re(inlineOptions),
		AnswerPattern:   re(answerLine),
		MetadataPattern: re(scoreMeta),
	})

	// Choice family.
	for _, sub := range []string{"单项选择", "词汇选择", "情景选择", "辨音选择", "时态语态选择", "交际用语", "近义词选择", "多项选择", "通用选择"} {
		register(ExtractionKey(types.TypeChoice, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			OptionsPattern:  re(letterOptions),
			AnswerPattern:   re(answerLine),
			MetadataPattern: re(scoreMeta),
		})
	}

	// Fill-blank family. The bracketed-hint pattern captures the stem with
	// its "(word)" hint intact; the grader needs the hint.
	register(ExtractionKey(types.TypeFillBlank, "语法填空"), ExtractionRule{
		QuestionPattern: re(`(?m)^\s*(\d{1,3})\s*[.、．]?\s*(.*_{2,}.*(?:[(（][a-zA-Z ]+[)）])?.*)$`),
		AnswerPattern:   re(answerLine),
		MetadataPattern: re(scoreMeta),
	})
	for _, sub := range []string{"首字母填空", "单词拼写", "句子填空", "短文填空", "动词填空", "介词填空", "词形变换", "冠词填空", "连词填空", "对话填空", "音标填词", "通用填空", "语法选择"} {
		register(ExtractionKey(types.TypeFillBlank, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			AnswerPattern:   re(answerLine),
			MetadataPattern: re(scoreMeta),
		})
	}
	register(ExtractionKey(types.TypeFillBlank, "选词填空"), ExtractionRule{
		QuestionPattern: re(numberedQuestion),
		OptionsPattern:  re(`(?m)^\s*([A-K])\s*[).、．]\s*([a-zA-Z][a-zA-Z\- ]*)\s*$`),
		AnswerPattern:   re(answerLine),
	})

	// Translation. The stem is the full source sentence; the bracketed word
	// requirement lands in metadata.
	for _, sub := range []string{"中译英", "英译中", "句子翻译", "短语翻译", "段落翻译", "划线翻译", "完成译句"} {
		register(ExtractionKey(types.TypeTranslation, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			AnswerPattern:   re(answerLine),
			MetadataPattern: re(`[(（]\s*([a-zA-Z][a-zA-Z. ]{0,30})\s*[)）]\s*$`),
			MetadataKey:     "hint",
		})
	}

	// Writing tasks are a single prompt, not numbered items.
	for _, sub := range []string{"概要写作", "指导性写作", "书面表达", "应用文写作", "看图写作", "读写结合", "图表作文", "书信写作", "通知写作", "日记写作"} {
		register(ExtractionKey(types.TypeWriting, sub), ExtractionRule{
			QuestionPattern: re(`(?s)\A\s*(.+?)\s*\z`),
			MetadataPattern: re(`(?i)(?:no\s+more\s+than|at\s+least|about)\s+(\d+)\s+words|不少于\s*(\d+)\s*词`),
			MetadataKey:     "word_limit",
		})
	}
	for _, sub := range []string{"改写句子", "连词成句"} {
		register(ExtractionKey(types.TypeWriting, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			AnswerPattern:   re(answerLine),
		})
	}

	// Matching.
	for _, sub := range []string{"搭配题", "句子匹配", "图文匹配", "标题匹配", "问答匹配", "释义匹配"} {
		register(ExtractionKey(types.TypeMatching, sub), ExtractionRule{
			QuestionPattern: re(numberedQuestion),
			OptionsPattern:  re(letterOptions),
			AnswerPattern:   re(answerLine),
		})
	}
}

// LookupExtraction returns the extraction rule for a type/sub-type pair.
func LookupExtraction(t types.QuestionType, subType string) (ExtractionRule, bool) {
	r, ok := extractionRules[ExtractionKey(t, subType)]
	return r, ok
}

// ExtractionRuleCount reports the number of registered extraction rules.
func ExtractionRuleCount() int {
	return len(extractionRules)
}
