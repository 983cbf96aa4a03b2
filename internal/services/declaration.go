package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/focusapp/focus-server/internal/models"
)

// DeclarationInput carries the goal fields interpolated into the
// declaration narrative.
type DeclarationInput struct {
	Title          string
	Motivation     string
	Resources      []string
	NextStep       string
	DailyTask      string
	DailyReward    string
	UltimateReward string
	TargetDate     *time.Time
}

// Fallback phrases for omitted fields, shared by the generator and the
// parser so generated text always matches the template scaffolding.
const (
	declNoMotivation = "this matters to me"
	declNoResource   = "my own determination"
	declNoNextStep   = "showing up today"
	declNoTask       = "one small action"
	declNoReward     = "a moment of rest"
	declNoBigReward  = "the person I become"
	declNoDate       = "the day I get there"
)

// DeclarationInputFromGoal derives the narrative inputs from a goal: the
// next step is the first open checkpoint, the ultimate reward the last
// listed reward.
func DeclarationInputFromGoal(goal *models.Goal) DeclarationInput {
	in := DeclarationInput{
		Title:       goal.Title,
		Motivation:  goal.Motivation,
		Resources:   goal.Resources,
		DailyTask:   goal.CurrentSettings.DailyTask,
		DailyReward: goal.CurrentSettings.DailyReward,
		TargetDate:  goal.TargetDate,
	}
	for _, cp := range goal.Checkpoints {
		if !cp.IsCompleted {
			in.NextStep = cp.Title
			break
		}
	}
	if len(goal.Rewards) > 0 {
		in.UltimateReward = goal.Rewards[len(goal.Rewards)-1]
	}
	return in
}

// GenerateDeclaration renders the fixed declaration narrative. It is pure
// and deterministic: identical inputs produce byte-identical output.
func GenerateDeclaration(in DeclarationInput, displayName string) string {
	motivation := orElse(in.Motivation, declNoMotivation)
	resources := declNoResource
	if len(in.Resources) > 0 {
		resources = strings.Join(in.Resources, ", ")
	}
	nextStep := orElse(in.NextStep, declNoNextStep)
	dailyTask := orElse(in.DailyTask, declNoTask)
	dailyReward := orElse(in.DailyReward, declNoReward)
	ultimateReward := orElse(in.UltimateReward, declNoBigReward)
	targetDate := declNoDate
	if in.TargetDate != nil {
		targetDate = in.TargetDate.Format("January 2, 2006")
	}

	return fmt.Sprintf(
		"I'm %s, and I'm stepping onto this path because %s.\n\n"+
			"My goal is %s. Each day I will %s, and when the day's work is done I will treat myself to %s.\n\n"+
			"I will lean on %s to carry me forward, and my next step is %s.\n\n"+
			"By %s I will have arrived, and %s will be waiting for me.",
		displayName, motivation,
		in.Title, dailyTask, dailyReward,
		resources, nextStep,
		targetDate, ultimateReward,
	)
}

// declarationPattern matches text produced by GenerateDeclaration. It is
// template-matching against the exact phrase scaffolding and breaks the
// moment the wording changes; that coupling stays inside this file.
var declarationPattern = regexp.MustCompile(
	`(?s)^I'm (.+?), and I'm stepping onto this path because (.+?)\.\n\n` +
		`My goal is (.+?)\. Each day I will (.+?), and when the day's work is done I will treat myself to (.+?)\.\n\n` +
		`I will lean on (.+?) to carry me forward, and my next step is (.+?)\.\n\n` +
		`By (.+?) I will have arrived, and (.+?) will be waiting for me\.$`,
)

// ParsedDeclaration holds fields recovered from generated declaration text.
type ParsedDeclaration struct {
	DisplayName    string
	Motivation     string
	Title          string
	DailyTask      string
	DailyReward    string
	Resources      []string
	NextStep       string
	TargetDate     string
	UltimateReward string
}

// ParseDeclaration recovers template variables from previously generated
// declaration text, for pre-filling edit forms. Returns ok=false for any
// text the template does not match; callers must keep the raw string as the
// source of truth either way.
func ParseDeclaration(text string) (ParsedDeclaration, bool) {
	m := declarationPattern.FindStringSubmatch(text)
	if m == nil {
		return ParsedDeclaration{}, false
	}
	return ParsedDeclaration{
		DisplayName:    m[1],
		Motivation:     m[2],
		Title:          m[3],
		DailyTask:      m[4],
		DailyReward:    m[5],
		Resources:      strings.Split(m[6], ", "),
		NextStep:       m[7],
		TargetDate:     m[8],
		UltimateReward: m[9],
	}, true
}

func orElse(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
