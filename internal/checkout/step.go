package checkout

import "errors"

// Step is the checkout state machine's position. Transitions not listed
// in the table are rejected instead of being left to the UI to prevent.
type Step string

const (
	StepClosed     Step = "closed"
	StepDetails    Step = "details"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
	StepError      Step = "error"
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

var transitions = map[Step]map[Step]bool{
	StepClosed:  {StepDetails: true},
	StepDetails: {StepPayment: true, StepClosed: true},
	StepPayment: {
		StepProcessing: true,
		StepSuccess:    true,
		StepError:      true,
		StepDetails:    true,
		StepClosed:     true,
	},
	// Processing deliberately has no edge back to closed: an in-flight
	// confirmation cannot be abandoned from the UI.
	StepProcessing: {StepSuccess: true, StepError: true},
	StepSuccess:    {StepClosed: true},
	StepError:      {StepPayment: true, StepDetails: true, StepClosed: true},
}

func canTransition(from, to Step) bool {
	return transitions[from][to]
}
