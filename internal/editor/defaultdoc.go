package editor

// DefaultDocument is the starter resume adopted when neither the local
// cache nor the remote store has content for the user.
const DefaultDocument = `# Your Name

**Email:** your.email@example.com | **Phone:** (123) 456-7890 | **LinkedIn:** linkedin.com/in/yourprofile

---

## Summary

Write a brief professional summary here...

---

## Experience

### Job Title | Company Name
*Month Year - Present*

- Achievement or responsibility
- Another achievement
- Key project or initiative

### Previous Job Title | Previous Company
*Month Year - Month Year*

- Achievement or responsibility
- Another achievement

---

## Education

### Degree Name | University Name
*Graduation Year*

- GPA: 3.X/4.0
- Relevant coursework

---

## Skills

**Technical:** Skill 1, Skill 2, Skill 3
**Languages:** Language 1, Language 2
`
