// Command taskcenter runs the task dashboard backend and its operator tools.
//
// The serve command hosts the JSON document store, the AI proxy endpoints,
// the audio transcription pipeline, and the frontend's static files on one
// listener. The remaining commands inspect configuration, dependencies, and
// stored documents without starting the server.
package main
