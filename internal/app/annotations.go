package app

// AnnotationNoEnv marks commands that run without a resolved configuration.
const AnnotationNoEnv = "spackter/no-env"
