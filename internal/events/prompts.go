package events

// noDescriptionPlaceholder stands in for an empty profile description so the
// prompt shape stays identical for every user.
const noDescriptionPlaceholder = "No additional context provided."

// recommendPromptTemplate asks for 3 events matching a profile. The format
// string expects 2 parameters: the comma-joined interest list and the
// description.
const recommendPromptTemplate = `You are an event planner. Generate a list of 3 fictional online events tailored to a user with the following profile:
Interests: %s
Description: %s

For each event, include the event name, date (in 2025), and a URL. Ensure the events align with the user's specific preferences. Format your response as a numbered list like this:
1. Event Name - Date - URL
2. Event Name - Date - URL
3. Event Name - Date - URL`

// recommendMorePromptTemplate additionally steers the model away from
// previously suggested events. The format string expects 3 parameters: the
// interest list, the description, and the comma-joined prior event names
// (or "none").
const recommendMorePromptTemplate = `You are an event planner. Generate a list of 3 new fictional online events tailored to a user with the following profile:
Interests: %s
Description: %s

For each event, include the event name, date (in 2025), and a URL. Ensure the events align with the user's specific preferences and are different from these previously suggested events: %s. Format your response as a numbered list like this:
1. Event Name - Date - URL
2. Event Name - Date - URL
3. Event Name - Date - URL`
