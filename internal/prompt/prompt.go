package prompt

import (
	"math/rand"
	"sync"
)

// Type keys a themed prompt pool. The engine only ever asks for "a random
// prompt of type X"; wording lives here and can be swapped per deployment.
type Type int

const (
	Introduction Type = iota
	WelcomeBack
	RoundLeadIn        // takes the 1-based question number
	NextQuestionLeadIn // after a correct answer
	QuestionLeadIn     // after a wrong answer
	FinalRoundLeadIn
	TrueFalseFrame // takes the question prompt
	RepeatLeadIn
	ReplayLeadIn // opening a play-again round
	Reprompt
	QuitConfirm
	Closing
	CorrectFeedback
	WrongFeedback
	CorrectAnswerReveal // takes the correct answer text
	AllCorrect          // takes the score
	SomeCorrect         // takes score and round length
	NoneCorrect
	ReplayQuestion
	QuitClose
	ScoreClose // takes score and round length
	NoInput1
	NoInput2
	NoInput3
	Apology
)

var defaults = map[Type][]string{
	Introduction: {
		"Welcome to the trivia game! Let's get started.",
		"Hello and welcome! Time for some trivia.",
	},
	WelcomeBack: {
		"Welcome back! Ready for another round?",
		"Good to hear you again. Let's play.",
	},
	RoundLeadIn: {
		"Question %d.",
		"Here comes question %d.",
	},
	NextQuestionLeadIn: {
		"Nice, next one.",
		"Keep it up. Next question.",
	},
	QuestionLeadIn: {
		"Okay, next question.",
		"Let's try another one.",
	},
	FinalRoundLeadIn: {
		"Last question!",
		"This is the final one.",
	},
	TrueFalseFrame: {
		"True or false: %s",
		"Is this true or false? %s",
	},
	RepeatLeadIn: {
		"Sure, once more.",
		"No problem, here it is again.",
	},
	ReplayLeadIn: {
		"Great, another round it is!",
		"Alright, let's go again.",
	},
	Reprompt: {
		"Sorry, I didn't catch that. You can say the answer or its number.",
		"I didn't get that. Try the answer, or say a number.",
	},
	QuitConfirm: {
		"I'm still not getting it. Do you want to stop playing? Yes or no?",
		"That doesn't match anything. Should we stop here? Yes or no?",
	},
	Closing: {
		"Looks like we're having trouble. Let's stop here. Come back any time!",
		"We'll leave it there for now. Thanks for playing!",
	},
	CorrectFeedback: {
		"That's right!",
		"Correct!",
		"You got it!",
	},
	WrongFeedback: {
		"Not quite.",
		"Sorry, that's not it.",
	},
	CorrectAnswerReveal: {
		"The answer was %s.",
		"It was %s.",
	},
	AllCorrect: {
		"A perfect %d! Amazing.",
		"All %d correct. Impressive!",
	},
	SomeCorrect: {
		"You got %d out of %d.",
		"That's %d of %d right.",
	},
	NoneCorrect: {
		"None right this time. They were tough ones.",
		"No points this round, but nice try.",
	},
	ReplayQuestion: {
		"Would you like to play another round?",
		"Want to go again?",
	},
	QuitClose: {
		"Okay, see you next time!",
		"Alright, thanks for playing!",
	},
	ScoreClose: {
		"You finished with %d out of %d. See you next time!",
		"Final score: %d of %d. Thanks for playing!",
	},
	NoInput1: {"Are you still there?"},
	NoInput2: {"I can repeat the question if you like."},
	NoInput3: {"Let's try again later. Goodbye!"},
	Apology: {
		"Sorry, something went wrong on my end. Let's try again later.",
		"I'm having trouble with the questions right now. Please come back later.",
	},
}

// Provider hands out themed prompt text. Consecutive calls for the same
// type avoid returning the same prompt twice in a row when the pool has
// alternatives.
type Provider struct {
	mu      sync.Mutex
	rng     *rand.Rand
	prompts map[Type][]string
}

func NewProvider(rng *rand.Rand) *Provider {
	return &Provider{
		rng:     rng,
		prompts: defaults,
	}
}

// Random picks a prompt of the given type, skipping last when possible.
func (p *Provider) Random(t Type, last string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool := p.prompts[t]
	if len(pool) == 0 {
		return ""
	}
	if len(pool) == 1 {
		return pool[0]
	}
	picked := pool[p.rng.Intn(len(pool))]
	for picked == last {
		picked = pool[p.rng.Intn(len(pool))]
	}
	return picked
}
