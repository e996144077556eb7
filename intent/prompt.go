package intent

const classificationPrompt = `You classify questions that a student asks about a document or a video they are studying.

Choose exactly one category:

specific_question: asks for a particular fact, definition or detail.
Example: "What year was the treaty signed?"

summarization: asks for an overview or summary of the whole material.
Example: "Summarize this lecture."

instruction: asks you to do something with the material, such as explain, list, compare or create.
Example: "Make a list of the key formulas."

general_question: asks a broad question about a topic covered by the material.
Example: "How does photosynthesis work?"

other: anything that fits none of the categories above.
Example: "Hello, are you there?"

Respond with exactly one label from: specific_question, summarization, instruction, general_question, other.
Do not add punctuation, quotes or explanation.`
