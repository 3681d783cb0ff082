package agent

import "github.com/sushant-bot/HONEY-POT/pkg/intel"

// stateIntents maps each state to the things the agent may want to
// communicate while in it. Intent is WHAT to say; phrasing is done
// elsewhere. Selection cycles by turn count so replays are identical.
var stateIntents = map[State][]string{
	StateInit: {
		"express confusion about the situation",
		"ask why this is happening",
	},
	StateConfused: {
		"ask why the account is blocked",
		"express worry about losing money",
		"ask what mistake was made",
	},
	StateTrusting: {
		"ask what steps are needed to fix this",
		"express willingness to cooperate",
		"ask for clarification on the process",
	},
	StateCompliant: {
		"agree to follow the instructions",
		"ask where to send the payment",
		"ask for account or UPI details",
	},
	StateExtraction: {
		"ask for payment details again",
		"ask for contact number for confirmation",
		"request official documentation",
	},
	StateExit: {
		"politely thank and end conversation",
		"say you need time to think",
		"mention you will do it later",
	},
}

// fallbackReplies are the pre-written replies used when no phrasing
// collaborator is configured, it fails, or its output is rejected.
// Guaranteed persona-safe by construction.
var fallbackReplies = map[State][]string{
	StateInit: {
		"Sir, what is happening? I don't understand.",
		"What do you mean? Is there a problem?",
	},
	StateConfused: {
		"But why is my account blocked? I didn't do anything wrong.",
		"Sir, please explain. What mistake have I made?",
		"I don't understand. Can you tell me more?",
	},
	StateTrusting: {
		"Okay sir, please tell me what I need to do.",
		"I am very worried. Please help me fix this.",
		"What steps should I take? Please guide me.",
	},
	StateCompliant: {
		"Okay, I will do as you say. Where should I send the money?",
		"Please give me the details. I want to fix this quickly.",
		"I am ready to pay. What is the UPI ID?",
	},
	StateExtraction: {
		"Can you share the payment details again? I want to be sure.",
		"What is your phone number so I can confirm?",
		"Is there an official link I should visit?",
	},
	StateExit: {
		"Okay sir, I will do it in some time. Thank you.",
		"Let me think about this. I will call you back.",
		"Thank you for informing me. I need to go now.",
	},
}

// probes target the intel kinds worth asking for directly.
var probes = map[intel.Kind]string{
	intel.KindPaymentHandle: "ask where to send the payment",
	intel.KindPhone:         "ask for a contact number to confirm",
	intel.KindURL:           "ask for official website or form link",
}

// SelectIntent picks the intent for a state and turn.
func SelectIntent(state State, turnCount int) string {
	intents, ok := stateIntents[state]
	if !ok {
		intents = stateIntents[StateConfused]
	}
	return intents[turnCount%len(intents)]
}

// FallbackReply picks the deterministic reply for a state and turn.
func FallbackReply(state State, turnCount int) string {
	replies, ok := fallbackReplies[state]
	if !ok {
		replies = fallbackReplies[StateConfused]
	}
	return replies[turnCount%len(replies)]
}

// ShouldProbe reports whether the agent should actively ask for missing
// intelligence. Only while compliant or extracting, and only while the
// collection is still thin.
func ShouldProbe(state State, intelCount int) bool {
	if state == StateCompliant || state == StateExtraction {
		return intelCount < 3
	}
	return false
}

// ProbeIntent returns the intent that asks for a specific missing kind.
func ProbeIntent(kind intel.Kind) string {
	if p, ok := probes[kind]; ok {
		return p
	}
	return "ask for more details"
}
