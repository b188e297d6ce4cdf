package prompts

import "strings"

const resumeFile = "resume.json"

// Resume returns the system instruction and the user prompt asking the model
// to rewrite resumeText for the job described in jobDescription.
func Resume(resumeText, jobDescription string) (system, user string, err error) {
	system, err = Get(resumeFile, "system")
	if err != nil {
		return "", "", err
	}
	template, err := Get(resumeFile, "user")
	if err != nil {
		return "", "", err
	}

	user = Format(template, map[string]string{
		"Resume":         strings.TrimSpace(resumeText),
		"JobDescription": strings.TrimSpace(jobDescription),
	})
	return system, user, nil
}

// ReplyExample returns a reply in the format the user prompt asks for
func ReplyExample() string {
	return MustGet(resumeFile, "reply-example")
}
