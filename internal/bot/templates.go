// ABOUTME: Canned response templates for the KRUX Finance assistant
// ABOUTME: Copy is grouped per rule category; variant slices are picked at random

package bot

// greetingTemplates is the closed set of greeting replies. Selection uses a
// uniform random index for variety; the set itself never changes at runtime.
var greetingTemplates = []string{
	"Hello! I'm your KRUX Finance assistant. How can I help you with your loan today?",
	"Hi there! Welcome to KRUX Finance support. What can I assist you with?",
	"Hey! Great to see you at KRUX Finance. How may I help you today?",
	"Welcome! I'm here to help with loans, documents, and application status. What do you need?",
}

// fallbackTemplates is the closed set of no-match replies.
var fallbackTemplates = []string{
	"I'm not sure I understand. Could you please rephrase? Or you can ask about: loan applications, document requirements, application status, or speak to a human agent.",
	"Sorry, I didn't quite catch that. You can ask me about loan applications, documents, EMI and repayment, or request a human agent.",
	"Hmm, I couldn't match that to anything I know. Try asking about loans, documents, application status, or say 'agent' to reach our support team.",
}

const (
	// Farewell. The goodbye reply is the farewell line plus the end-chat
	// notice; a pure thanks gets the shorter variant.
	goodbyeReply = "Thank you for chatting with KRUX Finance! Have a great day. " +
		"This chat session has now ended. You can start a new conversation anytime you need help."
	thanksReply = "You're welcome! Happy to help. Is there anything else you need?"

	// Sentiment acknowledgements, most positive to least.
	feedbackExcellent = "Thank you so much for the wonderful feedback! We're thrilled you had a great experience with KRUX Finance."
	feedbackGood      = "Glad to hear that! Thanks for letting us know. Is there anything else I can help you with?"
	feedbackOkay      = "Thanks for the feedback. We're always working to improve. Let me know if there's anything I can do better for you."
	feedbackPoor      = "We're sorry to hear that. Your feedback matters. Would you like me to connect you with a support agent to make this right?"

	// Loan applications.
	loanGeneral = "Our loan application process is simple and straightforward. We offer Business, Personal, and MSME loans. Which type are you interested in?"
	loanBusiness = "For Business Loans, you'll need: Business registration documents, 6 months bank statements, KYC documents, and Business financials. " +
		"Loan amounts range from ₹50,000 to ₹50,00,000."
	loanPersonal = "Personal Loans require: KYC documents, 3 months salary slips, bank statements, and employment proof. " +
		"Amounts range from ₹10,000 to ₹20,00,000."
	loanMSME = "MSME Loans need: Business registration, Udyam certificate, 6 months bank statements, and KYC documents. " +
		"Special rates for MSME customers!"
	loanEligibility = "Eligibility depends on your income, credit history, and loan type. Generally you need to be 21-60 years old with a stable income. " +
		"Share your loan type and I can list the exact criteria."
	loanInterest = "Interest rates start at 10.5% p.a. for Personal Loans, 11% for Business Loans, and 9.5% for MSME loans. " +
		"Your final rate depends on your credit profile."
	loanProcess = "The process takes 2-5 business days end to end: application, document verification, credit assessment, and disbursal. " +
		"You can track progress anytime with your application ID."

	// Document requirements.
	documentsGeneral = "Document requirements vary by loan type. Common documents include: Aadhaar, PAN, address proof, income proof, and bank statements. " +
		"Which loan type are you applying for?"
	documentsFormats = "Please submit clear, color scans of all documents. PDF format preferred for multiple pages. Maximum file size: 10MB per document."
	documentsAadhaar = "Your Aadhaar card works as both identity and address proof. Upload both sides as a single PDF or two clear images."
	documentsPAN     = "PAN card is mandatory for all loan applications. Make sure the name on the PAN matches your application exactly."
	documentsAddress = "For address proof we accept: Aadhaar, passport, utility bills (last 3 months), or a registered rent agreement."
	documentsIncome  = "For income proof, salaried applicants need 3 months salary slips and bank statements; self-employed applicants need 6 months bank statements and ITR."

	// Application status.
	statusGeneral = "To check your application status, I'll need your application ID. You can find it in your application confirmation email or SMS."
	statusSample  = "Application #APP12345: ✓ Document verification ✓ Credit assessment → Current status: Under review. Expected completion: 2-3 business days."

	// Repayment.
	repaymentGeneral = "You can repay via auto-debit, net banking, or UPI. EMIs are due on the 5th of every month. " +
		"Want details on prepayment or your EMI schedule?"
	repaymentPrepay = "Prepayment is allowed after 6 EMIs with a 2% foreclosure charge on the outstanding principal. Partial prepayment is free once per year."
	repaymentLate   = "Late payments attract a penalty of 2% per month on the overdue amount and may affect your credit score. " +
		"If you're facing difficulty, talk to our team about restructuring options."

	// Benefits, security, contact.
	benefitsReply = "KRUX Finance offers: quick approval within 48 hours, minimal documentation, competitive interest rates, no hidden charges, and flexible repayment tenures from 12 to 60 months."
	securityReply = "Your data is protected with bank-grade 256-bit encryption. We are RBI-registered and never share your information with third parties without consent."
	contactReply  = "You can reach us at 1800-KRUX-HELP (toll-free, 9am-7pm), support@kruxfinance.in, or visit any of our branch offices. I'm also here 24x7."

	// Escalation to a human.
	escalationGeneral = "I understand you'd like to speak with a human agent. I'm connecting you with our support team now. They'll be with you shortly. Please hold..."
	escalationUrgent  = "I can see this is urgent. I'm escalating your conversation to our support team right away. An agent will join within a few minutes."
	escalationCallback = "Sure, I can arrange a callback. Our support team will call you on your registered number within the next business hour."

	// Explicit feedback request.
	feedbackRequestReply = "We'd love your feedback! Please rate your experience from 1 to 5, or just tell me in your own words how we did."
)
