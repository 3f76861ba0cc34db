package integrate

// ensureIntegrationBranch places the working tree on the release branch,
// creating it fresh from an up-to-date main branch when it does not exist
// yet. The operation is idempotent so resumed runs pass through it again.
func (o *Orchestrator) ensureIntegrationBranch(releaseName, mainBranch string) error {
	switch {
	case o.git.BranchExists(releaseName):
		if err := o.git.Checkout(releaseName); err != nil {
			return &BranchOperationError{Op: "checkout " + releaseName, Err: err}
		}
		if o.git.RemoteBranchExists(o.remote, releaseName) {
			if err := o.git.Pull(o.remote, releaseName); err != nil {
				return &BranchOperationError{Op: "pull " + releaseName, Err: err}
			}
		}

	case o.git.RemoteBranchExists(o.remote, releaseName):
		if err := o.git.CheckoutTrack(o.remote, releaseName); err != nil {
			return &BranchOperationError{Op: "checkout --track " + releaseName, Err: err}
		}

	default:
		if err := o.git.Checkout(mainBranch); err != nil {
			return &BranchOperationError{Op: "checkout " + mainBranch, Err: err}
		}
		if err := o.git.Pull(o.remote, mainBranch); err != nil {
			return &BranchOperationError{Op: "pull " + mainBranch, Err: err}
		}
		if err := o.git.CheckoutNew(releaseName); err != nil {
			return &BranchOperationError{Op: "checkout -b " + releaseName, Err: err}
		}
	}

	o.logger.Debug("integration branch ready", "branch", releaseName)
	return nil
}
