// Package catalog holds the fixed allow-lists of CV sections and dashboard
// widgets, and how each one maps onto storage.
package catalog

import "path"

type Section string

const (
	Profile                 Section = "profile"
	About                   Section = "about"
	Experience              Section = "experience"
	Education               Section = "education"
	Licenses                Section = "licenses"
	Projects                Section = "projects"
	Volunteering            Section = "volunteering"
	Skills                  Section = "skills"
	RecommendationsGiven    Section = "recommendationsGiven"
	RecommendationsReceived Section = "recommendationsReceived"
	HonorsAwards            Section = "honorsAwards"
	Languages               Section = "languages"
)

// SingletonsCollection stores every singleton document keyed by name in _id.
const SingletonsCollection = "singletons"

// Sections lists all CV sections in display order.
var Sections = []Section{
	Profile,
	About,
	Experience,
	Education,
	Licenses,
	Projects,
	Volunteering,
	Skills,
	RecommendationsGiven,
	RecommendationsReceived,
	HonorsAwards,
	Languages,
}

var sectionSet = func() map[Section]struct{} {
	set := make(map[Section]struct{}, len(Sections))
	for _, s := range Sections {
		set[s] = struct{}{}
	}
	return set
}()

// ParseSection matches name exactly against the allow-list.
func ParseSection(name string) (Section, bool) {
	s := Section(name)
	_, ok := sectionSet[s]
	return s, ok
}

// Singleton reports whether the section holds at most one object.
func (s Section) Singleton() bool {
	return s == Profile || s == About
}

// Collection is where array sections live. Singleton sections live in
// SingletonsCollection under their own name.
func (s Section) Collection() string {
	if s.Singleton() {
		return SingletonsCollection
	}
	return string(s)
}

// DataFile is the committed JSON file for the section under dataPath.
func (s Section) DataFile(dataPath string) string {
	return path.Join(dataPath, string(s)+".json")
}
