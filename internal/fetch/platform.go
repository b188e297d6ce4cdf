package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board.
type Platform string

const (
	// PlatformGupy is the Gupy recruiting platform
	PlatformGupy Platform = "gupy"
	// PlatformLinkedIn is LinkedIn Jobs
	PlatformLinkedIn Platform = "linkedin"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"gupy.io", PlatformGupy},
	{"linkedin.com", PlatformLinkedIn},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform,
// falling back to the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformGupy:
		specific = []string{
			"[data-testid='text-section']",
			"#job-description",
			"section[class*='description']",
		}
	case PlatformLinkedIn:
		specific = []string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
		}
	case PlatformGreenhouse:
		specific = []string{
			".job__description.body",
			".job__description",
			".job-post-container",
		}
	case PlatformLever:
		specific = []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
		}
	case PlatformWorkday:
		specific = []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
		}
	}
	return append(specific, JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns elements to strip before extracting text.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".application-form",
		".apply-button-container",
		".eeo-statement",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGupy:
		return append(common, "[data-testid='apply-button']", ".job-apply")
	case PlatformLinkedIn:
		return append(common, ".top-card-layout__cta-container", ".similar-jobs", ".sign-in-modal")
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}
