package therapy

import "fmt"

// stepDescriptor is one entry of the fixed CBT script.
type stepDescriptor struct {
	Label       string
	Prompt      string // question shown to the user
	Instruction string // system directive for the completion call
}

// The five-step script is fixed at build time. Order matters: each step's
// instruction asks the question that opens the next step.
var cbtSteps = [5]stepDescriptor{
	{
		Label:  "Situation",
		Prompt: "What happened recently that's been bothering you?",
		Instruction: "You are a compassionate CBT therapist AI. The user described a situation. " +
			"Acknowledge it warmly in 1-2 sentences, then ask: " +
			"'What thoughts went through your mind when this happened?'",
	},
	{
		Label:  "Thoughts",
		Prompt: "What thoughts went through your mind when this happened?",
		Instruction: "You are a compassionate CBT therapist AI. Reflect their thoughts back gently, " +
			"then ask: 'And how did those thoughts make you feel emotionally?' " +
			"Name some possible emotions to help them.",
	},
	{
		Label:  "Feelings",
		Prompt: "How did those thoughts make you feel emotionally?",
		Instruction: "You are a compassionate CBT therapist AI. Validate their feelings fully. " +
			"Then gently ask: 'Is there another way to look at this situation? " +
			"What might a caring friend say to you about it?'",
	},
	{
		Label:  "Reframe",
		Prompt: "Is there another way to look at this situation?",
		Instruction: "You are a compassionate CBT therapist AI. Acknowledge their reframe warmly. " +
			"Build on it. Then ask: 'What is one small thing you could do today " +
			"to take care of yourself?'",
	},
	{
		Label:  "Action",
		Prompt: "What is one small thing you could do today to take care of yourself?",
		Instruction: "You are a compassionate CBT therapist AI. This is the final step. " +
			"Celebrate their insight warmly. Summarise the full session in 3-4 warm sentences. " +
			"End with specific encouragement.",
	},
}

// NumSteps is the length of the script.
const NumSteps = len(cbtSteps)

func stepAt(index int) (stepDescriptor, error) {
	if index < 0 || index >= NumSteps {
		return stepDescriptor{}, fmt.Errorf("cbt step index %d out of range [0,%d)", index, NumSteps)
	}
	return cbtSteps[index], nil
}

// PromptFor returns the question shown to the user at the given step.
func PromptFor(index int) (string, error) {
	s, err := stepAt(index)
	if err != nil {
		return "", err
	}
	return s.Prompt, nil
}

// LabelFor returns the short name of the given step.
func LabelFor(index int) (string, error) {
	s, err := stepAt(index)
	if err != nil {
		return "", err
	}
	return s.Label, nil
}

// InstructionFor returns the completion-service directive for the given step.
func InstructionFor(index int) (string, error) {
	s, err := stepAt(index)
	if err != nil {
		return "", err
	}
	return s.Instruction, nil
}
