package notify

import "fmt"

type template struct {
	Subject string
	Heading string
	Message string
	Color   string
}

// templateFor renders the copy for one event. Both channels (email body,
// push title/body) share these strings.
func templateFor(ev Event) (template, bool) {
	amount := fmt.Sprintf("$%.2f", ev.Amount)
	switch ev.Type {
	case EventDepositApproved:
		return template{
			Subject: "Your deposit has been approved!",
			Heading: "Deposit Approved",
			Message: fmt.Sprintf("Great news! Your deposit of %s has been approved and added to your wallet balance.", amount),
			Color:   "#22c55e",
		}, true
	case EventDepositRejected:
		return template{
			Subject: "Deposit request update",
			Heading: "Deposit Rejected",
			Message: fmt.Sprintf("We're sorry, but your deposit request of %s was not approved. Please contact support if you have questions.", amount),
			Color:   "#ef4444",
		}, true
	case EventWithdrawalApproved:
		return template{
			Subject: "Your withdrawal is on the way!",
			Heading: "Withdrawal Approved",
			Message: fmt.Sprintf("Your withdrawal request of %s has been approved and is being processed. You should receive your funds shortly.", amount),
			Color:   "#22c55e",
		}, true
	case EventWithdrawalRejected:
		return template{
			Subject: "Withdrawal request update",
			Heading: "Withdrawal Rejected",
			Message: fmt.Sprintf("We're sorry, but your withdrawal request of %s was not approved. Please contact support if you have questions.", amount),
			Color:   "#ef4444",
		}, true
	}
	return template{}, false
}
