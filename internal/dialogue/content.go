package dialogue

// testingNotice is appended to customer-facing menu and fallback messages.
const testingNotice = "⚠️ This is QuickStop bot in testing phase. Our team will assist if anything goes wrong."

// welcomeMenu is the top-level menu sent on first contact and on "menu".
const welcomeMenu = `👋 Welcome to QuickStop Cyber Cafe!

This service supports UNICAL & UICROSS students primarily.

` + testingNotice + `

Reply with a number:

1️⃣ New Student Registration
2️⃣ School Fees Payment
3️⃣ Online Courses Registration
4️⃣ JAMB Result & Admission Letter
5️⃣ Typing, Printing & Photocopy
6️⃣ Graphic Design
7️⃣ Web Design
8️⃣ Speak to an Agent
`

// newStudentMenu is the submenu behind main option 1.
const newStudentMenu = `📘 NEW STUDENT REGISTRATION
Choose a service:
1. UNICAL Checker Pin
2. Acceptance Fee
3. O'level Verification
4. Online Screening
5. Others (Attestation, Birth Cert, Cert of Origin)
0. Back to Main Menu
Reply with the number.

` + testingNotice

// agentServiceName labels tickets opened through "Speak to an Agent".
const agentServiceName = "Speak to Agent"

// Service is one bookable leaf of the menu tree.
type Service struct {
	Name         string
	Instructions string
}

// mainServices maps top-level menu digits 2-7 to their leaf service.
var mainServices = map[string]Service{
	"2": {
		Name: "School Fees Payment",
		Instructions: `🟦 SCHOOL FEES PAYMENT
Send: Student type (Fresh/Returning/Final), School (UNICAL/UICROSS), Registration/Matric/JAMB Number

` + testingNotice,
	},
	"3": {
		Name: "Online Courses Registration",
		Instructions: `🟦 ONLINE COURSES REGISTRATION
Send: Full Name, Matric Number, Courses, Level, Email, Phone Number

` + testingNotice,
	},
	"4": {
		Name: "JAMB Result & Admission Letter",
		Instructions: `🟦 JAMB RESULT & ADMISSION LETTER
Send: Full Name, JAMB Number, Matric Number, Email, Phone Number

` + testingNotice,
	},
	"5": {
		Name: "Typing/Printing/Photocopy",
		Instructions: `🟦 TYPING, PRINTING & PHOTOCOPY
Send: Full Name, Documents Description, Phone Number

` + testingNotice,
	},
	"6": {
		Name: "Graphic Design",
		Instructions: `🟦 GRAPHIC DESIGN
Send: Full Name, Description of work, Phone Number

` + testingNotice,
	},
	"7": {
		Name: "Web Design",
		Instructions: `🟦 WEB DESIGN
Send: Full Name, Description of project, Phone Number

` + testingNotice,
	},
}

// newStudentServices maps new-student submenu digits 1-5 to their leaf.
var newStudentServices = map[string]Service{
	"1": {
		Name: "UNICAL Checker Pin",
		Instructions: `🟦 UNICAL CHECKER PIN
Price: ₦3500
Send: Full Name, Reg Number, Email, Phone Number
Pay: KUDA 3002896343 QUICKSTOP CYBER CAFE

` + testingNotice,
	},
	"2": {
		Name: "Acceptance Fee",
		Instructions: `🟦 ACCEPTANCE FEE
Price: ₦42000
Send: Full Name, Reg Number, UNICAL Checker Pin, Email, Phone Number
Pay: KUDA 3002896343 QUICKSTOP CYBER CAFE

` + testingNotice,
	},
	"3": {
		Name: "O'level Verification",
		Instructions: `🟦 O'LEVEL VERIFICATION
Price: ₦10500
Send: Full Name, Reg Number, Email, Phone Number, O'Level Result, Department, Faculty
Pay: KUDA 3002896343 QUICKSTOP CYBER CAFE

` + testingNotice,
	},
	"4": {
		Name: "Online Screening",
		Instructions: `🟦 ONLINE SCREENING
Price: ₦2500
Send: Full Name, Reg Number, Address, DOB, Phone, Email, State of origin, LGA, Hometown, Sponsor info, Emergency Contact
Send clear photos: Passport, JAMB Admission, O'Level Result, Attestation, Birth Cert, Cert of Origin
Pay: KUDA 3002896343 QUICKSTOP CYBER CAFE

` + testingNotice,
	},
	"5": {
		Name: "Other Documents",
		Instructions: `🟦 OTHER DOCUMENTS
Attestation ₦1000, Birth Cert ₦4000, Cert of Origin ₦5000
Send which one + details
Pay: KUDA 3002896343 QUICKSTOP CYBER CAFE

` + testingNotice,
	},
}
